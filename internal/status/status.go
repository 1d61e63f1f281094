// Package status translates operator-facing stage codes into the DAO
// master's internal server status vocabulary.
//
// A managed server moves through three macro stages and two transitions:
//
//	S0 (unmanaged) -> S0S1 (validating) -> S1 (validated) -> S1S2 (provisioning) -> S2 (provisioned)
//
// The master tracks finer-grained statuses. A stable stage covers its settled
// status plus the failure-tinged statuses that leave a server "still" in that
// stage, so querying S0 also finds servers that are Unknown or failed
// validation. Setting a status is stricter: only S0, S1 and S2 map to a single
// settled status, and the empty code means "leave it alone".
//
// The tables here are static. Moving a server between statuses is the
// master's job.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// Internal statuses as defined by the master.
const (
	Unmanaged             = "Unmanaged"
	Unknown               = "Unknown"
	ValidatedWithErrors   = "ValidatedWithErrors"
	Validating            = "Validating"
	Validated             = "Validated"
	ProvisionedWithErrors = "ProvisionedWithErrors"
	Provisioning          = "Provisioning"
	Provisioned           = "Provisioned"
)

// Stage codes accepted on the command line.
const (
	S0   = "S0"
	S0S1 = "S0S1"
	S1   = "S1"
	S1S2 = "S1S2"
	S2   = "S2"
	// Unset leaves the target field unchanged.
	Unset = ""
)

var (
	// ErrUnknownStage is returned for codes outside the stage vocabulary.
	ErrUnknownStage = errors.New("unknown stage code")

	// ErrTransitionTarget is returned when a transition code is used where a
	// settled status is required.
	ErrTransitionTarget = errors.New("transition stage cannot be set directly")
)

// queryStatuses maps each stage to every status a server in that stage can
// report.
var queryStatuses = map[string][]string{
	S0:   {Unmanaged, Unknown, ValidatedWithErrors},
	S0S1: {Validating},
	S1:   {Validated, ProvisionedWithErrors},
	S1S2: {Provisioning},
	S2:   {Provisioned},
}

// mutationStatuses maps settled stages to the status written by a set.
var mutationStatuses = map[string]string{
	S0: Unmanaged,
	S1: Validated,
	S2: Provisioned,
}

// QueryCodes lists the codes valid for status filters, in lifecycle order.
func QueryCodes() []string {
	return []string{S0, S0S1, S1, S1S2, S2}
}

// MutationCodes lists the codes valid for status updates. Unset is accepted
// as well and means no change.
func MutationCodes() []string {
	return []string{S0, S1, S2}
}

// Query expands stage codes into the internal statuses to filter on. The
// result is the concatenation of every code's statuses in argument order;
// duplicates are kept. Codes are case-insensitive.
func Query(codes ...string) ([]string, error) {
	var statuses []string
	for _, code := range codes {
		expanded, ok := queryStatuses[strings.ToUpper(code)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, code)
		}
		statuses = append(statuses, expanded...)
	}
	return statuses, nil
}

// Mutation maps a stage code to the single status to write. ok is false for
// Unset, meaning the field must not change. Transition codes are rejected
// with ErrTransitionTarget.
func Mutation(code string) (status string, ok bool, err error) {
	code = strings.ToUpper(code)
	if code == Unset {
		return "", false, nil
	}
	if s, found := mutationStatuses[code]; found {
		return s, true, nil
	}
	if code == S0S1 || code == S1S2 {
		return "", false, fmt.Errorf("%w: %q", ErrTransitionTarget, code)
	}
	return "", false, fmt.Errorf("%w: %q", ErrUnknownStage, code)
}
