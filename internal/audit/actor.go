package audit

// UnavailableID is the sentinel for a pid or uid that could not be
// determined. Fields carrying this value are omitted from the record
// rather than emitted as zero.
const UnavailableID = ^uint64(0)

// actorKind discriminates the ActorContext variants.
type actorKind uint8

const (
	actorAbsent actorKind = iota
	actorUnixProcess
	actorInvocation
)

// ActorContext describes who performed an audited operation. The zero
// value means no actor information is available. Construct non-empty
// values with UnixProcessActor or InvocationActor.
type ActorContext struct {
	kind       actorKind
	pid, uid   uint64
	invocation any
}

// UnixProcessActor builds an already-resolved actor identity. Pass
// UnavailableID for a pid or uid that is not known.
func UnixProcessActor(pid, uid uint64) ActorContext {
	return ActorContext{kind: actorUnixProcess, pid: pid, uid: uid}
}

// InvocationActor wraps a wire-level invocation context whose identity
// must be extracted by the manager's ActorResolver.
func InvocationActor(invocation any) ActorContext {
	return ActorContext{kind: actorInvocation, invocation: invocation}
}

// ActorResolver maps a wire-level invocation context to a resolved
// (pid, uid) identity, or reports that none can be derived.
type ActorResolver func(invocation any) (pid, uid uint64, err error)
