package domain

// Role represents a user role in the system
type Role string

const (
	RoleClient      Role = "CLIENT"
	RoleAdmin       Role = "ADMIN"
	RoleTechnician  Role = "TECHNICIEN"
	RoleCommercial  Role = "COMMERCIAL"
	RoleAccountant  Role = "COMPTABLE"
	RoleSupervisor  Role = "RESPONSABLE"
	RoleLegal       Role = "JURIDIQUE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleTechnician, RoleCommercial,
		RoleAccountant, RoleSupervisor, RoleLegal:
		return true
	}
	return false
}

// UserStatus represents the account status of a user
type UserStatus string

const (
	UserPending  UserStatus = "PENDING"
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

// ProspectStatus represents the sales-funnel status of a prospect
type ProspectStatus string

const (
	ProspectNew          ProspectStatus = "NEW"
	ProspectContacted    ProspectStatus = "CONTACTED"
	ProspectQualified    ProspectStatus = "QUALIFIED"
	ProspectProposalSent ProspectStatus = "PROPOSAL_SENT"
	ProspectNegotiation  ProspectStatus = "NEGOTIATION"
	ProspectConverted    ProspectStatus = "CONVERTED"
	ProspectLost         ProspectStatus = "LOST"
)

// ProformaStatus represents the lifecycle status of a proforma
type ProformaStatus string

const (
	ProformaDraft     ProformaStatus = "DRAFT"
	ProformaSent      ProformaStatus = "SENT"
	ProformaAccepted  ProformaStatus = "ACCEPTED"
	ProformaRejected  ProformaStatus = "REJECTED"
	ProformaExpired   ProformaStatus = "EXPIRED"
	ProformaConverted ProformaStatus = "CONVERTED"
)

// Valid reports whether s is a known proforma status.
func (s ProformaStatus) Valid() bool {
	switch s {
	case ProformaDraft, ProformaSent, ProformaAccepted,
		ProformaRejected, ProformaExpired, ProformaConverted:
		return true
	}
	return false
}

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractDraft      ContractStatus = "DRAFT"
	ContractPending    ContractStatus = "PENDING"
	ContractConfirmed  ContractStatus = "CONFIRMED"
	ContractActive     ContractStatus = "ACTIVE"
	ContractExpired    ContractStatus = "EXPIRED"
	ContractTerminated ContractStatus = "TERMINATED"
	ContractCancelled  ContractStatus = "CANCELLED"
)

// Valid reports whether s is a known contract status.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractPending, ContractConfirmed, ContractActive,
		ContractExpired, ContractTerminated, ContractCancelled:
		return true
	}
	return false
}

// KioskStatus represents the availability status of a kiosk
type KioskStatus string

const (
	KioskAvailable        KioskStatus = "AVAILABLE"
	KioskInUse            KioskStatus = "IN_USE"
	KioskUnderMaintenance KioskStatus = "UNDER_MAINTENANCE"
	KioskClosed           KioskStatus = "CLOSED"
)

// TicketStatus represents the status of a service request
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketClosed     TicketStatus = "CLOSED"
)

// TicketPriority represents the priority of a service request
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityNormal TicketPriority = "NORMAL"
	PriorityHigh   TicketPriority = "HIGH"
	PriorityUrgent TicketPriority = "URGENT"
)

// StatusID is the 3-value account status the UI exposes for prospects.
// It is a coarser view than ProspectStatus; the mapping below is lossy
// in both directions and kept that way on purpose.
type StatusID string

const (
	StatusIDActive   StatusID = "ACTIVE"
	StatusIDInactive StatusID = "INACTIVE"
	StatusIDPending  StatusID = "PENDING"
)

// StatusIDToProspectStatus maps the UI-facing statusId onto the richer
// prospect funnel status. Unrecognized values land on NEW.
func StatusIDToProspectStatus(id StatusID) ProspectStatus {
	switch id {
	case StatusIDActive:
		return ProspectQualified
	case StatusIDInactive:
		return ProspectLost
	default:
		return ProspectNew
	}
}

// ProspectStatusToStatusID flattens the funnel status into the UI-facing
// statusId bucket.
func ProspectStatusToStatusID(s ProspectStatus) StatusID {
	switch s {
	case ProspectQualified, ProspectProposalSent, ProspectNegotiation, ProspectConverted:
		return StatusIDActive
	case ProspectLost:
		return StatusIDInactive
	default:
		return StatusIDPending
	}
}

// proformaDeletable lists the statuses a proforma may be deleted from.
var proformaDeletable = map[ProformaStatus]bool{
	ProformaDraft: true,
}

// proformaConvertible lists the statuses a proforma may be converted from.
var proformaConvertible = map[ProformaStatus]bool{
	ProformaAccepted: true,
}

// CanDeleteProforma reports whether a proforma in status s may be deleted.
func CanDeleteProforma(s ProformaStatus) bool { return proformaDeletable[s] }

// CanConvertProforma reports whether a proforma in status s may become a contract.
func CanConvertProforma(s ProformaStatus) bool { return proformaConvertible[s] }
