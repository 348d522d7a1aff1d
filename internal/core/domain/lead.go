package domain

// Lead is owned by the lead-management side of the application. The user
// directory only reads it to scope and enrich client lists.
type Lead struct {
	ID          string   `json:"_id"`
	ClientPhone string   `json:"clientPhone"`
	AllocatedTo []string `json:"allocatedTo"`
	IsArchived  bool     `json:"isArchived"`
}
