package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	BatchFile   string
	OutputFile  string
	Format      string
	Workers     int
	Diagnostics bool
	ListModels  bool
	LogLevel    string

	// Fallback translation flags
	Provider    string
	OpenAIModel string

	// Google Sheets flags
	Spreadsheet string
	Credentials string

	// Upload server flags
	Addr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputFile:  DefaultOutputFile,
		Workers:     1,
		LogLevel:    "info",
		Provider:    ProviderGoogle,
		OpenAIModel: DefaultOpenAIModel,
		Addr:        DefaultAddr,
	}
}
