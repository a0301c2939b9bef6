//go:build opencl

package main

import "github.com/cwbudde/algo-eig/gpu"

func init() {
	gpu.RegisterOpenCLBackend()
}
