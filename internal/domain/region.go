package domain

import "time"

type FederalState struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder *int32    `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Region struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	FederalStateID *int64    `json:"federalStateID"`
	SortOrder      *int32    `json:"sortOrder"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
