package cel

// Rule answers a question with Answer when the When condition holds.
type Rule struct {
	When   string `json:"when" yaml:"when" mapstructure:"when"`
	Answer string `json:"answer" yaml:"answer" mapstructure:"answer"`
}
