package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executible
	Main_version = "v1.0.0"

	// Modular tools
	Analyze        = "v1.0.0"
	Features       = "v1.0.0"
	Train          = "v1.0.0"
	Invalidate     = "v1.0.0"
	Seq_Generator  = "v2.1.0" // Class-biased protein mode
	BLASTp         = "v1.0.0"
	FASTA_Overview = "v2.0.0" // Protein-only report
	Sanity_check   = "v1.1.0"
	Benchmark      = "v1.0.0"

	// Bumped whenever the model artifact layout changes
	Model_format = 1
)
