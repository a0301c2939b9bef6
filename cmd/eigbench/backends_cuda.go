//go:build cuda

package main

import "github.com/cwbudde/algo-eig/gpu"

func init() {
	gpu.RegisterCUDABackend()
}
