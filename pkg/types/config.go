package types

// Config holds the client-side settings needed to reach the entity service
// and to place the local snapshot database.
type Config struct {
	ServiceURL string `json:"service_url" yaml:"service_url"`
	Username   string `json:"username" yaml:"username"`
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	DataDir    string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
}

// Validate checks that the Config is well-formed, returning a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return ErrServiceURLEmpty
	}
	if c.Username == "" {
		return ErrUsernameEmpty
	}
	return nil
}
