package mrcgo

type options struct {
	permissive bool
	readOnly   bool
	overwrite  bool
	logger     *Logger
}

// Option configures interpreter and file constructor behavior.
//
// Options exist to avoid exploding the API surface with mode-specific
// constructor variants.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger: NoopLogger(),
	}
}

// WithPermissive toggles permissive interpretation.
//
// In permissive mode recoverable structural problems (bad map ID, unknown
// machine stamp, invalid mode or shape, truncated data block) are downgraded
// to warnings and interpretation continues with a degraded result: an assumed
// little-endian byte order, or an absent data block. A truncated header stays
// fatal regardless. This is a best-effort diagnostics mode for quasi-valid or
// exotic files, not a blanket error suppressor.
func WithPermissive(permissive bool) Option {
	return func(o *options) {
		o.permissive = permissive
	}
}

// WithReadOnly makes the header, extended header and data immutable and
// turns Flush into a no-op. Read-only instances never write to, seek or
// truncate their stream.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.readOnly = readOnly
	}
}

// WithOverwrite allows New to replace an existing file. Without it, New
// refuses to clobber.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwrite = overwrite
	}
}

// WithLogger configures structured logging. If nil is passed, logging stays
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
