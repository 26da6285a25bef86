// Package config loads the harness configuration: how to launch the runtime,
// per-namespace launch differences, perf probes, delta thresholds, and where
// runs are stored.
//
// Three file formats are accepted, chosen by extension:
//
//	.yaml, .yml  strict YAML; unknown fields are rejected
//	.toml        TOML; undecoded keys are rejected
//	.cue         CUE, unified with the embedded schema before decoding
//
// Every format decodes over Default(), so a file only needs the fields it
// changes. An example YAML file:
//
//	runtime:
//	  executable: ../dist/mu-shell
//	  flags: ["-p"]
//	  timeout: 30s
//	namespaces:
//	  prelude:
//	    preload: ["../dist/prelude.l"]
//	    init: ["(prelude:%init-ns)"]
//	perf:
//	  preload: ["./perf.l"]
//	  repeat: 5
package config
