package back

import (
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/slowlang/pyrs/compiler/tp"
)

type (
	// Options are emission toggles. The zero value is the default.
	Options struct {
		// Namespace is the runtime crate path. stdpython if empty.
		Namespace string `yaml:"namespace,omitempty"`

		// QualifyObjects writes the dynamic object type as <namespace>::PyObject.
		QualifyObjects bool `yaml:"qualify_objects,omitempty"`

		// WithStdPython prepends `use <namespace>::*;` to modules.
		WithStdPython bool `yaml:"with_std_python,omitempty"`

		// NoDocstrings omits extracted docstrings from the output.
		NoDocstrings bool `yaml:"no_docstrings,omitempty"`
	}
)

const DefaultNamespace = "stdpython"

// LoadOptions reads yaml options file.
func LoadOptions(name string) (o Options, err error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return o, errors.Wrap(err, "read options")
	}

	return ParseOptions(data)
}

func ParseOptions(data []byte) (o Options, err error) {
	err = yaml.Unmarshal(data, &o)
	if err != nil {
		return o, errors.Wrap(err, "parse options")
	}

	return o, nil
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return DefaultNamespace
	}

	return o.Namespace
}

func (o Options) object() tp.Object {
	if !o.QualifyObjects {
		return tp.Object{}
	}

	return tp.Object{Namespace: o.namespace()}
}
