package jsonlang

import "github.com/dekarrin/oak/lang"

// Language is jsonlang's lang.Language[TokenKind, NodeKind] binding.
type Language struct {
	cfg lang.Config
}

// New creates a Language with the given configuration; a zero-valued cfg
// gets package defaults applied by lang.Config.WithDefaults wherever the
// core reads it.
func New(cfg lang.Config) Language {
	return Language{cfg: cfg}
}

func (Language) Name() string {
	return "jsonlang"
}

func (l Language) Config() lang.Config {
	return l.cfg.WithDefaults()
}
