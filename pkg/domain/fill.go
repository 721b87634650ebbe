package domain

// FieldDescriptor describes one fillable field of a document template.
type FieldDescriptor struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Value   string   `json:"value,omitempty"`
	Options []string `json:"options,omitempty"`
}

// FillOptions are handed to the filling capability with every request.
type FillOptions struct {
	// OutputFormat names the produced document format. Only "pdf" is defined;
	// empty means "pdf".
	OutputFormat string `json:"output_format"`
	// Parallelism is the number of execution lanes the filler may use.
	Parallelism int `json:"parallelism"`
}

// DefaultFillOptions returns the options used when none are configured.
func DefaultFillOptions() FillOptions {
	return FillOptions{OutputFormat: "pdf", Parallelism: 4}
}
