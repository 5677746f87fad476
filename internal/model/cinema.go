package model

// Cinema is a venue whose daily programme can be planned.  Cinemas and
// their movies are supplied by the external data source and stored in the
// `cinemas` table; the planner only reads them.
//
// Fields:
//  ID    – primary key identifier.
//  Code  – external venue code used in URLs and saved schedules.
//  Name  – display name.
//  State – region/state label used for grouping in listings.
type Cinema struct {
	ID    uint64 `json:"id"`    // cinemas.id
	Code  string `json:"code"`  // cinemas.code
	Name  string `json:"name"`  // cinemas.name
	State string `json:"state"` // cinemas.state
}
