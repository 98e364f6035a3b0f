package domain

// OnlineLabel is the last-seen label of a friend who is currently connected.
const OnlineLabel = "En ligne"

type Friend struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Available bool   `json:"is_available"`
	LastSeen  string `json:"last_seen"`
	Status    string `json:"status"`
}

func (f Friend) Online() bool { return f.LastSeen == OnlineLabel }
