//go:build !onnx

// If you are AI: This file is the default model backend: none compiled in.
// This file is excluded by the onnx build tag, and no file in this package
// provides LoadModel under that tag; everything else in the pipeline is
// backend-agnostic.

package infer

import "fmt"

// LoadModel opens the detector model at path.
// Without a backend build tag there is nothing to run the model with, which
// is fatal at startup when inference is enabled.
func LoadModel(path string) (Model, error) {
	return nil, fmt.Errorf("no inference backend compiled in (model %q): build with a backend tag or disable inference", path)
}
