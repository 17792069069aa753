package ability

import "github.com/thangnm/rentacc/app/models"

// Action is something a user may do to a subject.
type Action string

const (
	ActionCreate          Action = "create"
	ActionRead            Action = "read"
	ActionReadAll         Action = "read_all"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionRestore         Action = "restore"
	ActionReadWithDeleted Action = "read_with_deleted"
)

// Subject is a closed enum of the resource kinds abilities apply to.
type Subject string

const (
	SubjectRental         Subject = "rental"
	SubjectRentalRenew    Subject = "rental_renew"
	SubjectWorkspaceEmail Subject = "workspace_email"
	SubjectCustomer       Subject = "customer"
	SubjectWorkspace      Subject = "workspace"
	SubjectUser           Subject = "user"
)

type grant struct {
	Action  Action
	Subject Subject
}

// Abilities is the computed capability set of one user for one request.
type Abilities struct {
	grants map[grant]struct{}
}

// Can reports whether the action is permitted on the subject.
func (a *Abilities) Can(action Action, subject Subject) bool {
	if a == nil {
		return false
	}
	_, ok := a.grants[grant{Action: action, Subject: subject}]
	return ok
}

// Compute derives the full ability set for a user. Evaluated once per
// request, never cached across requests.
func Compute(user *models.User) *Abilities {
	a := &Abilities{grants: map[grant]struct{}{}}
	if user == nil || user.Status != models.STATUS_ACTIVE {
		return a
	}

	subjects := []Subject{
		SubjectRental, SubjectRentalRenew, SubjectWorkspaceEmail,
		SubjectCustomer, SubjectWorkspace,
	}

	// Staff manage day-to-day rentals but cannot destroy or resurrect data.
	for _, s := range subjects {
		a.allow(ActionCreate, s)
		a.allow(ActionRead, s)
		a.allow(ActionReadAll, s)
		a.allow(ActionUpdate, s)
	}

	if user.Role == models.ROLE_ADMIN {
		for _, s := range subjects {
			a.allow(ActionDelete, s)
			a.allow(ActionRestore, s)
			a.allow(ActionReadWithDeleted, s)
		}
		a.allow(ActionCreate, SubjectUser)
		a.allow(ActionRead, SubjectUser)
		a.allow(ActionReadAll, SubjectUser)
		a.allow(ActionUpdate, SubjectUser)
		a.allow(ActionDelete, SubjectUser)
	}

	return a
}

func (a *Abilities) allow(action Action, subject Subject) {
	a.grants[grant{Action: action, Subject: subject}] = struct{}{}
}
