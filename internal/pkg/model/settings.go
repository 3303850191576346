package model

// ModemSettings is the partial update body for a modem resource. Pointer
// fields are omitted when the form leaves them untouched.
type ModemSettings struct {
	Name     *string `json:"name,omitempty"`
	User     *string `json:"user,omitempty"`
	Password *string `json:"password,omitempty"`
	Address  *string `json:"address,omitempty"`
	Port     *int    `json:"port,omitempty"`
}

// GroupSettings is the partial update body for a group resource.
type GroupSettings struct {
	Name *string `json:"name,omitempty"`
}

// NewLink is the create/promote body posted to the defined links
// collection.
type NewLink struct {
	ResponderID    string `json:"responder_id"`
	ResponderGroup int    `json:"responder_group"`
	Data1          int    `json:"data_1"`
	Data2          int    `json:"data_2"`
}

// LinkUpdate is the partial update body for an existing defined link.
type LinkUpdate struct {
	Data1 int `json:"data_1"`
	Data2 int `json:"data_2"`
}
