package rbac

// Role is the closed set of job functions that drive every authorization
// decision. Unknown roles have no permissions.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleManager          Role = "MANAGER"
	RoleDoctor           Role = "DOCTOR"
	RoleNurse            Role = "NURSE"
	RoleReceptionist     Role = "RECEPTIONIST"
	RoleLabTech          Role = "LAB_TECH"
	RolePharmacist       Role = "PHARMACIST"
	RoleRadiologist      Role = "RADIOLOGIST"
	RoleSurgeon          Role = "SURGEON"
	RoleAnesthesiologist Role = "ANESTHESIOLOGIST"
	RoleNutritionist     Role = "NUTRITIONIST"
	RolePhysiotherapist  Role = "PHYSIOTHERAPIST"
	RolePsychologist     Role = "PSYCHOLOGIST"
	RoleAccountant       Role = "ACCOUNTANT"
	RoleITSupport        Role = "IT_SUPPORT"
	RoleSecurity         Role = "SECURITY"
	RoleCleaner          Role = "CLEANER"
	RolePatient          Role = "PATIENT"
)

// AllRoles lists every valid role, in a stable order.
var AllRoles = []Role{
	RoleAdmin, RoleManager, RoleDoctor, RoleNurse, RoleReceptionist,
	RoleLabTech, RolePharmacist, RoleRadiologist, RoleSurgeon,
	RoleAnesthesiologist, RoleNutritionist, RolePhysiotherapist,
	RolePsychologist, RoleAccountant, RoleITSupport, RoleSecurity,
	RoleCleaner, RolePatient,
}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Action is a unit of permission granting on a module.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

// Grant allows a set of actions on one module.
type Grant struct {
	Module  string
	Actions []Action
}

// rolePermissions is the static role × module × action matrix. It is the
// single source of truth for authorization; middleware and any UI-visibility
// endpoint consult it through Registry and nothing else.
var rolePermissions = map[Role][]Grant{
	RoleAdmin: {
		{Module: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "roles", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "permissions", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "departments", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "clinics", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "appointments", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "patients", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "medical-records", Actions: []Action{ActionRead, ActionDelete}},
		{Module: "billing", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove}},
		{Module: "insurance", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "pharmacy", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "inventory", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "settings", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "audit-logs", Actions: []Action{ActionRead, ActionExport}},
	},
	RoleManager: {
		{Module: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "departments", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "clinics", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "appointments", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionRead}},
		{Module: "billing", Actions: []Action{ActionRead, ActionApprove}},
		{Module: "insurance", Actions: []Action{ActionRead, ActionApprove}},
		{Module: "pharmacy", Actions: []Action{ActionRead}},
		{Module: "inventory", Actions: []Action{ActionRead, ActionApprove}},
		{Module: "equipment", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "shifts", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "audit-logs", Actions: []Action{ActionRead}},
	},
	RoleDoctor: {
		{Module: "appointments", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "prescriptions", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "lab-tests", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "imaging-studies", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "vital-signs", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "allergies", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "vaccinations", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "admissions", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "surgeries", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "emergency", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "billing", Actions: []Action{ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
	},
	RoleNurse: {
		{Module: "appointments", Actions: []Action{ActionRead}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionRead}},
		{Module: "prescriptions", Actions: []Action{ActionRead}},
		{Module: "vital-signs", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "lab-tests", Actions: []Action{ActionRead}},
		{Module: "imaging-studies", Actions: []Action{ActionRead}},
		{Module: "admissions", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "emergency", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "vaccinations", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "shifts", Actions: []Action{ActionRead}},
	},
	RoleReceptionist: {
		{Module: "appointments", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "insurance", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "billing", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "emergency", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "clinics", Actions: []Action{ActionRead}},
		{Module: "departments", Actions: []Action{ActionRead}},
	},
	RoleLabTech: {
		{Module: "lab-tests", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "shifts", Actions: []Action{ActionRead}},
	},
	RolePharmacist: {
		{Module: "prescriptions", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "pharmacy", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "medicines", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "inventory", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "billing", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "shifts", Actions: []Action{ActionRead}},
	},
	RoleRadiologist: {
		{Module: "imaging-studies", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "shifts", Actions: []Action{ActionRead}},
	},
	RoleSurgeon: {
		{Module: "appointments", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "surgeries", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "prescriptions", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "lab-tests", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "imaging-studies", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "admissions", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
	},
	RoleAnesthesiologist: {
		{Module: "surgeries", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "vital-signs", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "allergies", Actions: []Action{ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead}},
	},
	RoleNutritionist: {
		{Module: "appointments", Actions: []Action{ActionRead}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "vital-signs", Actions: []Action{ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
	},
	RolePhysiotherapist: {
		{Module: "appointments", Actions: []Action{ActionRead}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
	},
	RolePsychologist: {
		{Module: "appointments", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "patients", Actions: []Action{ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "prescriptions", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
	},
	RoleAccountant: {
		{Module: "billing", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionApprove}},
		{Module: "insurance", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "pharmacy", Actions: []Action{ActionRead}},
		{Module: "inventory", Actions: []Action{ActionRead}},
		{Module: "purchase-orders", Actions: []Action{ActionCreate, ActionRead, ActionApprove}},
		{Module: "suppliers", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "reports", Actions: []Action{ActionRead, ActionExport}},
		{Module: "patients", Actions: []Action{ActionRead}},
	},
	RoleITSupport: {
		{Module: "users", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "settings", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "audit-logs", Actions: []Action{ActionRead, ActionExport}},
		{Module: "equipment", Actions: []Action{ActionRead, ActionUpdate}},
	},
	RoleSecurity: {
		{Module: "emergency", Actions: []Action{ActionRead}},
		{Module: "visitors", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "audit-logs", Actions: []Action{ActionRead}},
	},
	RoleCleaner: {
		{Module: "shifts", Actions: []Action{ActionRead}},
		{Module: "rooms", Actions: []Action{ActionRead, ActionUpdate}},
	},
	RolePatient: {
		{Module: "appointments", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "medical-records", Actions: []Action{ActionRead}},
		{Module: "prescriptions", Actions: []Action{ActionRead}},
		{Module: "lab-tests", Actions: []Action{ActionRead}},
		{Module: "imaging-studies", Actions: []Action{ActionRead}},
		{Module: "billing", Actions: []Action{ActionRead}},
		{Module: "insurance", Actions: []Action{ActionRead}},
		{Module: "profile", Actions: []Action{ActionRead, ActionUpdate}},
	},
}

// Registry answers permission queries against the static matrix. Built once
// at startup and read concurrently without synchronization; it never mutates
// after construction.
type Registry struct {
	grants map[Role][]Grant
	index  map[Role]map[string]map[Action]struct{}
}

// NewRegistry builds the default registry from the static matrix.
func NewRegistry() *Registry {
	return NewRegistryWithGrants(rolePermissions)
}

// NewRegistryWithGrants builds a registry from an explicit grant table,
// letting tests swap in a small matrix.
func NewRegistryWithGrants(grants map[Role][]Grant) *Registry {
	index := make(map[Role]map[string]map[Action]struct{}, len(grants))
	for role, roleGrants := range grants {
		modules := make(map[string]map[Action]struct{}, len(roleGrants))
		for _, grant := range roleGrants {
			actions := make(map[Action]struct{}, len(grant.Actions))
			for _, action := range grant.Actions {
				actions[action] = struct{}{}
			}
			modules[grant.Module] = actions
		}
		index[role] = modules
	}
	return &Registry{grants: grants, index: index}
}

// HasPermission reports whether role may perform action on module. It is a
// pure lookup: unknown roles, modules, and actions all answer false.
func (r *Registry) HasPermission(role Role, module string, action Action) bool {
	modules, ok := r.index[role]
	if !ok {
		return false
	}
	actions, ok := modules[module]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// AccessibleModules returns the modules the role may touch, in grant order.
// Unknown roles get an empty slice.
func (r *Registry) AccessibleModules(role Role) []string {
	grants, ok := r.grants[role]
	if !ok {
		return []string{}
	}
	modules := make([]string, 0, len(grants))
	for _, grant := range grants {
		modules = append(modules, grant.Module)
	}
	return modules
}

// AllowedActions returns the actions the role may perform on module, in
// grant order. Unknown role or module gets an empty slice.
func (r *Registry) AllowedActions(role Role, module string) []Action {
	grants, ok := r.grants[role]
	if !ok {
		return []Action{}
	}
	for _, grant := range grants {
		if grant.Module == module {
			return append([]Action{}, grant.Actions...)
		}
	}
	return []Action{}
}

// Grants exposes the full table for enumeration (seeding, UI payloads,
// property tests). Callers must not mutate the returned grants.
func (r *Registry) Grants() map[Role][]Grant {
	return r.grants
}
