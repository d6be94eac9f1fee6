package compiler

// Options is kept on the Context so backends can see how it was built.
type Options struct {
	// AddTypename runs AddTypename over the document before compiling.
	AddTypename bool `yaml:"addTypename" json:"addTypename"`
}

type Option func(opts *Options)

func WithAddTypename(addTypename bool) Option {
	return func(opts *Options) {
		opts.AddTypename = addTypename
	}
}

func newOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
