// Package session contains the session domain model: the authenticated
// student's identity, the three academic resources, and the lifecycle state
// machine. This is core business logic - no external dependencies here.
package session

import (
	"encoding/json"
	"time"

	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Mobile represents the student's 10-digit mobile number, the login handle
// of the campus portal.
type Mobile string

// IsValid checks that the mobile is exactly 10 numeric digits.
func (m Mobile) IsValid() bool {
	if len(m) != 10 {
		return false
	}
	for _, r := range m {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the string representation of the mobile number.
func (m Mobile) String() string {
	return string(m)
}

// Credentials is the credential pair submitted at login, echoed in the
// session so resource refetches can reuse it.
type Credentials struct {
	Mobile   Mobile `json:"mobile"`
	Password string `json:"password"`
}

// Validate checks both halves of the credential pair. The input boundary is
// expected to have done this already; operations call it again so a bad pair
// can never reach the network.
func (c Credentials) Validate() error {
	if !c.Mobile.IsValid() {
		return shared.ErrInvalidMobile
	}
	if c.Password == "" {
		return shared.ErrEmptyPassword
	}
	return nil
}

// Identity is the student identity shown to consumers. The upstream portal
// returns no profile object, so the identity is derived locally from the
// submitted mobile number.
type Identity struct {
	Name   string `json:"name"`
	Mobile Mobile `json:"mobile"`
}

// DeriveIdentity builds the local identity for a mobile number.
func DeriveIdentity(mobile Mobile) Identity {
	return Identity{
		Name:   "Student",
		Mobile: mobile,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Lifecycle represents the session state machine.
type Lifecycle string

const (
	// LoggedOut is the initial and post-logout state.
	LoggedOut Lifecycle = "logged_out"

	// Authenticating is set while a login call is in flight.
	Authenticating Lifecycle = "authenticating"

	// Authenticated is set after a successful login or restore.
	Authenticated Lifecycle = "authenticated"

	// AuthFailed is set after a rejected login. Resources are guaranteed
	// absent in this state.
	AuthFailed Lifecycle = "auth_failed"
)

// IsValid checks the lifecycle value.
func (l Lifecycle) IsValid() bool {
	switch l {
	case LoggedOut, Authenticating, Authenticated, AuthFailed:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCES
// ══════════════════════════════════════════════════════════════════════════════

// ResourceKind identifies one of the three academic resources.
type ResourceKind string

const (
	ResourceAttendance ResourceKind = "attendance"
	ResourceResults    ResourceKind = "results"
	ResourceTimetable  ResourceKind = "timetable"
)

// AllResourceKinds lists the three kinds in a stable order.
func AllResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceAttendance, ResourceResults, ResourceTimetable}
}

// IsValid checks the resource kind.
func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceAttendance, ResourceResults, ResourceTimetable:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k ResourceKind) String() string {
	return string(k)
}

// Resource holds one academic resource. The payload shape is owned by the
// upstream service; only presence and freshness are tracked here.
type Resource struct {
	Kind      ResourceKind    `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Present reports whether the resource has been hydrated.
func (r *Resource) Present() bool {
	return r != nil && r.Payload != nil
}

// ResourceSlot is one of the three slots in the session. An absent slot with
// RetryEligible set means the fetch failed and may be explicitly refetched.
type ResourceSlot struct {
	Resource      *Resource `json:"resource,omitempty"`
	RetryEligible bool      `json:"retry_eligible,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// Session is the authenticated student's in-memory state bundle. It is
// exclusively owned by the session manager; consumers receive copies.
type Session struct {
	Lifecycle   Lifecycle                     `json:"lifecycle"`
	Identity    *Identity                     `json:"identity,omitempty"`
	Credentials *Credentials                  `json:"credentials,omitempty"`
	Resources   map[ResourceKind]ResourceSlot `json:"resources"`
	LastError   string                        `json:"last_error,omitempty"`
}

// New returns the initial empty session.
func New() *Session {
	return &Session{
		Lifecycle: LoggedOut,
		Resources: make(map[ResourceKind]ResourceSlot, 3),
	}
}

// Reset returns the session to its initial empty state in place.
func (s *Session) Reset() {
	s.Lifecycle = LoggedOut
	s.Identity = nil
	s.Credentials = nil
	s.Resources = make(map[ResourceKind]ResourceSlot, 3)
	s.LastError = ""
}

// BeginAuth moves the session into Authenticating and clears the prior error.
func (s *Session) BeginAuth(creds Credentials) error {
	if s.Lifecycle == Authenticating {
		return shared.ErrAlreadyAuthenticating
	}
	s.Lifecycle = Authenticating
	s.Credentials = &creds
	s.LastError = ""
	return nil
}

// FailAuth records a rejected login. Resources are cleared so the invariant
// "resources only populated when Authenticated" holds.
func (s *Session) FailAuth(reason string) {
	s.Lifecycle = AuthFailed
	s.Identity = nil
	s.Resources = make(map[ResourceKind]ResourceSlot, 3)
	s.LastError = reason
}

// CompleteAuth records a successful login. Resource slots from a previous
// identity are dropped before hydration so a stale payload can never be
// attributed to the new identity.
func (s *Session) CompleteAuth(identity Identity) {
	s.Lifecycle = Authenticated
	s.Identity = &identity
	s.Resources = make(map[ResourceKind]ResourceSlot, 3)
	s.LastError = ""
}

// SetResource stores a hydrated resource in its slot.
func (s *Session) SetResource(res Resource) error {
	if !res.Kind.IsValid() {
		return shared.ErrUnknownResource
	}
	if s.Lifecycle != Authenticated {
		return shared.ErrNotAuthenticated
	}
	s.Resources[res.Kind] = ResourceSlot{Resource: &res}
	return nil
}

// MarkResourceFailed marks a slot absent and retry-eligible.
func (s *Session) MarkResourceFailed(kind ResourceKind) error {
	if !kind.IsValid() {
		return shared.ErrUnknownResource
	}
	s.Resources[kind] = ResourceSlot{RetryEligible: true}
	return nil
}

// Resource returns the slot for a kind. The zero slot is returned for a kind
// that was never touched.
func (s *Session) Resource(kind ResourceKind) ResourceSlot {
	return s.Resources[kind]
}

// FullyHydrated reports whether all three resources are present.
func (s *Session) FullyHydrated() bool {
	for _, kind := range AllResourceKinds() {
		if !s.Resources[kind].Resource.Present() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy for consumers. Payloads are copied so a consumer
// cannot reach back into the owned aggregate.
func (s *Session) Clone() *Session {
	out := &Session{
		Lifecycle: s.Lifecycle,
		LastError: s.LastError,
		Resources: make(map[ResourceKind]ResourceSlot, len(s.Resources)),
	}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Credentials != nil {
		creds := *s.Credentials
		out.Credentials = &creds
	}
	for kind, slot := range s.Resources {
		copySlot := ResourceSlot{RetryEligible: slot.RetryEligible}
		if slot.Resource != nil {
			res := *slot.Resource
			if slot.Resource.Payload != nil {
				res.Payload = make(json.RawMessage, len(slot.Resource.Payload))
				copy(res.Payload, slot.Resource.Payload)
			}
			copySlot.Resource = &res
		}
		out.Resources[kind] = copySlot
	}
	return out
}
