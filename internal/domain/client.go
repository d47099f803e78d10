package domain

import "time"

type Client struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
