package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"nn-visualizer/pkg/api"
	"nn-visualizer/pkg/client"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type summary struct {
	min, max, mean float64
}

func summarize(values []float64) summary {
	if len(values) == 0 {
		return summary{}
	}
	return summary{min: floats.Min(values), max: floats.Max(values), mean: stat.Mean(values, nil)}
}

func printActivations(w *tabwriter.Writer, res api.ActivationsResponse) {
	fmt.Fprintf(w, "input: %q\n", res.Input)
	fmt.Fprintln(w, "#\ttype\tshape\tmin\tmax\tmean")
	for i, layer := range res.Layers {
		s := summarize(layer.Activations)
		fmt.Fprintf(w, "%d\t%s\t%v\t%.4g\t%.4g\t%.4g\n", i, layer.Type, layer.Shape, s.min, s.max, s.mean)
	}
}

func main() {
	var (
		addr    string
		input   string
		workers int
		timeout time.Duration
	)
	flag.StringVar(&addr, "addr", "http://localhost:8000", "address of the server")
	flag.StringVar(&input, "input", "", "text to compute activations for, ignored when inputs are passed as arguments")
	flag.IntVar(&workers, "workers", 4, "max concurrent requests")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{input}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c := client.New(addr)

	info, err := c.GetModel(ctx)
	if err != nil {
		log.Fatalf("error getting model info: %v", err)
	}
	fmt.Printf("model %s (%s), %d layers, max input length %d\n", info.Name, info.Id, len(info.Layers), info.MaxInputLength)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	failed := 0
	for _, r := range c.GetActivationsBatch(ctx, inputs, workers) {
		if r.Error != nil {
			slog.Error("error getting activations", "input", r.Input, "error", r.Error)
			failed++
			continue
		}
		printActivations(w, r.Response)
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("error writing output: %v", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
