// Package requirement validates the prerequisite buildings declared by
// catalog entries before a construction, improvement, or training
// operation may proceed.
package requirement

import (
	"fmt"

	"github.com/example/garrison/internal/core/guard"
	"github.com/example/garrison/internal/fault"
)

// Requirement is one prerequisite declared by a catalog entry: the
// garrison must own the building, its instantiation must be finished,
// and, when UpgradeLevel is set, a finished upgrade reaching that level
// must exist.
type Requirement struct {
	Code         string
	UpgradeLevel int
}

// BuildingState is the derived state of one owned building as seen at
// validation time.
type BuildingState struct {
	Owned        bool
	Instantiated bool
	UpgradeLevel int
}

// Validate checks every requirement against the garrison's current
// buildings. All requirements must hold; validation short-circuits on
// the first failure.
func Validate(reqs []Requirement, state func(code string) BuildingState) guard.Result {
	for _, req := range reqs {
		s := state(req.Code)
		if !s.Owned {
			return guard.Deny(fault.KindPreconditionFailed,
				fmt.Sprintf("requires building %s", req.Code))
		}
		if !s.Instantiated {
			return guard.Deny(fault.KindPreconditionFailed,
				fmt.Sprintf("requires building %s to be fully constructed", req.Code))
		}
		if req.UpgradeLevel > 0 && s.UpgradeLevel < req.UpgradeLevel {
			return guard.Deny(fault.KindPreconditionFailed,
				fmt.Sprintf("requires building %s at upgrade level %d, have %d",
					req.Code, req.UpgradeLevel, s.UpgradeLevel))
		}
	}
	return guard.Allow()
}
