package parameter

import (
	"github.com/google/uuid"
)

// Spec is the immutable definition of a script-backed parameter.
type Spec struct {
	// Name identifies the parameter; it is unique within a form.
	Name string

	// Script is the source text producing the parameter value(s).
	Script string

	// Description is shown to users next to the parameter.
	Description string

	// UUID identifies this definition across hosts and workers.
	UUID string

	// Target selects where Script is evaluated.
	Target ExecutionTarget
}

// NewSpec builds a Spec, generating a UUID when none is supplied.
func NewSpec(name, script, description, id string, remote bool) Spec {
	if id == "" {
		id = uuid.NewString()
	}
	return Spec{
		Name:        name,
		Script:      script,
		Description: description,
		UUID:        id,
		Target:      TargetFor(remote),
	}
}

// Remote reports whether the script should run on a remote worker.
func (s Spec) Remote() bool {
	return s.Target == TargetRemote
}
