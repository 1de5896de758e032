package audit

import "fmt"

// EntityEvent represents one gateway operation on a registered entity.
type EntityEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // list, show, create, update, delete
	Entity       string
	RecordID     string
	Bypass       bool
	Success      bool
	ErrorMessage string
}

func (e EntityEvent) MessageID() string {
	return e.Operation
}

func (e EntityEvent) Message() string {
	target := e.Entity
	if e.RecordID != "" {
		target += "/" + e.RecordID
	}
	if e.Success {
		msg := fmt.Sprintf("%s performed %s on %s", e.UserID, e.Operation, target)
		if e.Bypass {
			msg += " (tenant bypass)"
		}
		return msg
	}
	msg := fmt.Sprintf("%s failed %s on %s", e.UserID, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntityEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntityEvent) Facility() int {
	return FacilityAuthPriv
}

func (e EntityEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"entity": e.Entity,
		},
		SDIDAction: {
			"operation": e.Operation,
			"user":      e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.RecordID != "" {
		sd[SDIDSubject]["record"] = e.RecordID
	}
	if e.Bypass {
		sd[SDIDAction]["bypass"] = "true"
	}
	return sd
}

// AdminEvent represents a super-admin action on merchant accounts.
type AdminEvent struct {
	UserID       string
	ClientIP     string
	Operation    string
	TargetUserID string
	Success      bool
	ErrorMessage string
}

func (e AdminEvent) MessageID() string {
	return "admin-" + e.Operation
}

func (e AdminEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s performed admin %s on user %s", e.UserID, e.Operation, e.TargetUserID)
	}
	msg := fmt.Sprintf("%s failed admin %s on user %s", e.UserID, e.Operation, e.TargetUserID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AdminEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AdminEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AdminEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user": e.TargetUserID,
		},
		SDIDAction: {
			"operation": e.Operation,
			"user":      e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// JobEvent represents one scheduled-job side effect (a reminder sent, a
// trial expired, a stale photo cleared).
type JobEvent struct {
	Job          string
	RecordID     string
	Success      bool
	ErrorMessage string
}

func (e JobEvent) MessageID() string {
	return "job-" + e.Job
}

func (e JobEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("job %s processed %s", e.Job, e.RecordID)
	}
	msg := fmt.Sprintf("job %s failed on %s", e.Job, e.RecordID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e JobEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e JobEvent) Facility() int {
	return FacilityUser
}

func (e JobEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"record": e.RecordID,
		},
		SDIDAction: {
			"job": e.Job,
		},
	}
}
