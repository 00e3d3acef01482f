package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"nn-visualizer/internal/core/layers"
	"nn-visualizer/internal/storage"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

var ErrInvalidModel = errors.New("invalid model")

// Model ids are derived from the model file contents under this namespace, so
// the same file always loads with the same id.
var modelNamespace = uuid.MustParse("5b0f3c1e-6d0a-4e0b-9a37-2f3c8e7d9a41")

// Model is an ordered list of layers. It is immutable once loaded and safe to
// share between concurrent traces.
type Model struct {
	Id        uuid.UUID
	Name      string
	InputSize int
	Layers    []layers.Layer
}

type modelFile struct {
	Name      string      `json:"name" yaml:"name"`
	InputSize int         `json:"input_size" yaml:"input_size"`
	Model     layers.Spec `json:"model" yaml:"model"`
}

func NewModel(name string, inputSize int, ls ...layers.Layer) *Model {
	return &Model{
		Id:        uuid.NewSHA1(modelNamespace, []byte(name)),
		Name:      name,
		InputSize: inputSize,
		Layers:    ls,
	}
}

func LoadModel(ctx context.Context, provider storage.Provider, bucket, key string) (*Model, error) {
	data, err := provider.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("error reading model file %s: %w", key, err)
	}
	return ParseModel(key, data)
}

// ParseModel decodes a model file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON.
func ParseModel(filename string, data []byte) (*Model, error) {
	var file modelFile
	ext := filepath.Ext(filename)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: error parsing yaml: %w", ErrInvalidModel, err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: error parsing json: %w", ErrInvalidModel, err)
		}
	}

	if file.Model.Type == "" {
		return nil, fmt.Errorf("%w: missing model definition", ErrInvalidModel)
	}
	if !layers.IsGroup(file.Model.Type) {
		return nil, fmt.Errorf("%w: model root must be a grouping node, got %q", ErrInvalidModel, file.Model.Type)
	}

	var ls []layers.Layer
	if err := collectLayers(file.Model.Children, "", &ls); err != nil {
		return nil, err
	}

	if file.InputSize > 0 && len(ls) > 0 {
		if linear, ok := ls[0].(*layers.Linear); ok && linear.InFeatures() != file.InputSize {
			return nil, fmt.Errorf("%w: first layer expects %d inputs but input_size is %d", ErrInvalidModel, linear.InFeatures(), file.InputSize)
		}
	}

	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), ext)
	}

	return &Model{
		Id:        uuid.NewSHA1(modelNamespace, data),
		Name:      name,
		InputSize: file.InputSize,
		Layers:    ls,
	}, nil
}

// collectLayers flattens the module tree depth first in definition order,
// dropping grouping nodes.
func collectLayers(specs []layers.Spec, prefix string, out *[]layers.Layer) error {
	for i, spec := range specs {
		path := spec.Name
		if path == "" {
			path = strconv.Itoa(i)
		}
		if prefix != "" {
			path = prefix + "." + path
		}

		if layers.IsGroup(spec.Type) {
			if err := collectLayers(spec.Children, path, out); err != nil {
				return err
			}
			continue
		}

		if len(spec.Children) > 0 {
			return fmt.Errorf("%w: layer %s (%s) has children, only grouping nodes may", ErrInvalidModel, path, spec.Type)
		}

		layer, err := layers.Build(spec)
		if err != nil {
			return fmt.Errorf("%w: layer %s: %w", ErrInvalidModel, path, err)
		}
		*out = append(*out, layer)
	}
	return nil
}
