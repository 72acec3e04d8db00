/*
Package workers determines worker pool sizes for the conversion pool in
containerized environments.

# Overview

When running in containers (Docker, Kubernetes, etc.), the number of
available CPUs may be limited by cgroup constraints. While Go 1.19+
automatically sets GOMAXPROCS based on container CPU limits, the commonly
used runtime.NumCPU() function still returns the host machine's CPU count.

Consider a Kubernetes pod with a CPU limit of 2 cores running on a
64-core node:

	// Wrong: Returns 64 (host CPUs), ignores container limit
	workers := runtime.NumCPU()

	// Correct: Returns 2 (respects container limit in Go 1.19+)
	workers := runtime.GOMAXPROCS(0)

Running 64 concurrent ffmpeg processes on 2 CPUs leads to excessive
context switching, CPU throttling by the container runtime, and poor
conversion throughput.

# Usage

GIF conversion is CPU-bound (ffmpeg saturates a core per process), so
the pool uses one worker per available CPU:

	import "gifmill/internal/workers"

	numWorkers := workers.ForCPU(4) // max 4 workers

For a different ratio, use Count directly:

	// 2 workers per CPU, maximum of 8
	numWorkers := workers.Count(2.0, 8)

# Environment Variable Override

Both functions respect the CONVERT_WORKERS environment variable, allowing
operators to override the automatic calculation:

	# In Kubernetes deployment
	env:
	- name: CONVERT_WORKERS
	  value: "2"

This is useful for fine-tuning performance in specific environments or
temporarily limiting concurrency on shared hosts. Invalid or
non-positive values are ignored and the automatic calculation applies.

# Thread Safety

All functions in this package are safe for concurrent use. They read from
runtime.GOMAXPROCS and environment variables, which are themselves
thread-safe.
*/
package workers
