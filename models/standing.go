package models

type UserStanding struct {
	User  User `json:"user"`
	Score int  `json:"score"`
}

type GroupStanding struct {
	Group Group `json:"group"`
	Score int   `json:"score"`
}

type Standings struct {
	Tournament Tournament      `json:"tournament"`
	Users      []UserStanding  `json:"users"`
	Groups     []GroupStanding `json:"groups"`
}
