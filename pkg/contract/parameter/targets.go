package parameter

const (
	// TargetLocal evaluates the script inside the host process.
	TargetLocal ExecutionTarget = "local"

	// TargetRemote evaluates the script on a remote worker.
	TargetRemote ExecutionTarget = "remote"
)

// ExecutionTarget controls where a parameter script is evaluated.
type ExecutionTarget string

// TargetFor maps the remote flag of a parameter configuration to an ExecutionTarget.
func TargetFor(remote bool) ExecutionTarget {
	if remote {
		return TargetRemote
	}
	return TargetLocal
}
