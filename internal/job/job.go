// Package job defines the Build Job model: identity, build type, state
// transitions, and the deterministic storage layout for artifacts and logs.
package job

import (
	"fmt"
	"time"
)

// BuildType enumerates the supported build flavors.
type BuildType string

const (
	BuildTypeDebugAPK   BuildType = "debug-apk"
	BuildTypeReleaseAPK BuildType = "release-apk"
	BuildTypeReleaseAAB BuildType = "release-aab"
)

var buildTypes = map[BuildType]struct{}{
	BuildTypeDebugAPK:   {},
	BuildTypeReleaseAPK: {},
	BuildTypeReleaseAAB: {},
}

// BuildTypeFromString converts a string to a BuildType and reports whether it
// is a known type.
func BuildTypeFromString(s string) (BuildType, bool) {
	bt := BuildType(s)
	_, known := buildTypes[bt]
	return bt, known
}

// IsRelease reports whether the build type requires signing configuration.
func (t BuildType) IsRelease() bool {
	return t == BuildTypeReleaseAPK || t == BuildTypeReleaseAAB
}

// ArtifactExt returns the artifact file extension for the build type,
// without a leading dot.
func (t BuildType) ArtifactExt() string {
	if t == BuildTypeReleaseAAB {
		return "aab"
	}
	return "apk"
}

// PackagingType returns the packaging descriptor value the build toolchain
// expects: "apk" for APK builds, "bundle" for app bundles.
func (t BuildType) PackagingType() string {
	if t == BuildTypeReleaseAAB {
		return "bundle"
	}
	return "apk"
}

// State represents the lifecycle state of a build job.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

// Terminal reports whether the state ends the job lifecycle.
func (s State) Terminal() bool { return s == StateComplete || s == StateFailed }

// Job is one invocation of the pipeline. It is immutable after construction
// except for the state transition bookkeeping.
type Job struct {
	BuildID   string
	UserID    string
	BuildType BuildType

	// StartedAt is the recorded start instant; durations in terminal reports
	// are computed from it, never from ambient process state.
	StartedAt time.Time

	state State
}

// New constructs a pending job with the start instant recorded now.
func New(buildID, userID string, buildType BuildType) (*Job, error) {
	if buildID == "" {
		return nil, fmt.Errorf("build id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if _, ok := buildTypes[buildType]; !ok {
		return nil, fmt.Errorf("unknown build type %q", buildType)
	}
	return &Job{
		BuildID:   buildID,
		UserID:    userID,
		BuildType: buildType,
		StartedAt: time.Now(),
		state:     StatePending,
	}, nil
}

// State returns the current lifecycle state.
func (j *Job) State() State { return j.state }

// Transition moves the job to the next state. Terminal states are sticky:
// transitioning out of one is an error, which backs the exactly-once
// terminal-report guarantee.
func (j *Job) Transition(next State) error {
	if j.state.Terminal() {
		return fmt.Errorf("job %s already terminal (%s), cannot transition to %s", j.BuildID, j.state, next)
	}
	j.state = next
	return nil
}

// Duration returns whole wall-clock seconds elapsed since the job started.
// Never negative.
func (j *Job) Duration() int64 {
	d := int64(time.Since(j.StartedAt).Seconds())
	if d < 0 {
		return 0
	}
	return d
}

// ArtifactKey returns the deterministic object-storage key for the artifact:
// builds/{userId}/{buildType}-{buildId}.{ext}.
func (j *Job) ArtifactKey() string {
	return fmt.Sprintf("builds/%s/%s-%s.%s", j.UserID, j.BuildType, j.BuildID, j.BuildType.ArtifactExt())
}

// LogKey returns the deterministic object-storage key for failure logs:
// logs/{userId}/{buildId}.log.
func (j *Job) LogKey() string {
	return fmt.Sprintf("logs/%s/%s.log", j.UserID, j.BuildID)
}
