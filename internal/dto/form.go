package dto

// FormDefinition is the on-disk shape of a questionnaire.
// It uses "mapstructure" tags so that any decoded YAML or JSON tree can be
// mapped onto it after the generic parse.
type FormDefinition struct {
	Name   string           `json:"name" mapstructure:"name"`
	Title  string           `json:"title" mapstructure:"title"`
	Nodes  []NodeDefinition `json:"nodes" mapstructure:"nodes"`
	Fields *FieldsSection   `json:"fields" mapstructure:"fields"`
}

type NodeDefinition struct {
	Key         string           `json:"key" mapstructure:"key"`
	Type        string           `json:"type" mapstructure:"type"`
	Field       string           `json:"field" mapstructure:"field"`
	Options     []string         `json:"options" mapstructure:"options"`
	Context     string           `json:"context" mapstructure:"context"`
	Placeholder string           `json:"placeholder" mapstructure:"placeholder"`
	Question    string           `json:"question" mapstructure:"question"`
	Initial     bool             `json:"initial" mapstructure:"initial"`
	Final       bool             `json:"final" mapstructure:"final"`
	Rules       []RuleDefinition `json:"rules" mapstructure:"rules"`
}

// RuleDefinition holds exactly one condition key plus its destination.
// GoTo is the unconditional shorthand and needs no To.
type RuleDefinition struct {
	IfTrue  string   `json:"if_true" mapstructure:"if_true"`
	IfFalse string   `json:"if_false" mapstructure:"if_false"`
	GTE     *float64 `json:"gte" mapstructure:"gte"`
	LTE     *float64 `json:"lte" mapstructure:"lte"`
	EQ      any      `json:"eq" mapstructure:"eq"`
	Has     string   `json:"has" mapstructure:"has"`
	When    string   `json:"when" mapstructure:"when"`
	GoTo    string   `json:"goto" mapstructure:"goto"`
	To      string   `json:"to" mapstructure:"to"`
}

type FieldsSection struct {
	Separator string              `json:"separator" mapstructure:"separator"`
	Bindings  []BindingDefinition `json:"bindings" mapstructure:"bindings"`
}

type BindingDefinition struct {
	Answer string `json:"answer" mapstructure:"answer"`
	Field  string `json:"field" mapstructure:"field"`
	On     string `json:"on" mapstructure:"on"`
	Off    string `json:"off" mapstructure:"off"`
	Option string `json:"option" mapstructure:"option"`
}
