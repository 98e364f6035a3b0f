// Package seed loads the sample data every new workspace starts from.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/session"
	"DispoCeSoir/internal/social"
)

//go:embed seed.yaml
var defaultYAML []byte

type Data struct {
	Identity      identityFile       `yaml:"identity"`
	Friends       []friendFile       `yaml:"friends"`
	Notifications []notificationFile `yaml:"notifications"`
	Events        []eventFile        `yaml:"events"`
}

type identityFile struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Avatar    string `yaml:"avatar"`
	SignInBio string `yaml:"sign_in_bio"`
	SignUpBio string `yaml:"sign_up_bio"`
}

type friendFile struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Avatar    string `yaml:"avatar"`
	Available bool   `yaml:"available"`
	LastSeen  string `yaml:"last_seen"`
	Status    string `yaml:"status"`
}

type notificationFile struct {
	ID      string                  `yaml:"id"`
	Kind    domain.NotificationKind `yaml:"type"`
	Message string                  `yaml:"message"`
	From    string                  `yaml:"from"`
	Age     time.Duration           `yaml:"-"`
	RawAge  string                  `yaml:"age"`
	Read    bool                    `yaml:"read"`
}

type eventFile struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Location     string    `yaml:"location"`
	Time         string    `yaml:"time"`
	Organizer    string    `yaml:"organizer"`
	Participants []string  `yaml:"participants"`
	Votes        voteTable `yaml:"votes"`
}

// voteTable decodes a YAML mapping keeping its key order.
type voteTable domain.Votes

func (v *voteTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: votes must be a mapping", node.Line)
	}
	out := domain.Votes{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var n int
		if err := val.Decode(&n); err != nil {
			return fmt.Errorf("line %d: votes %q: %w", val.Line, key.Value, err)
		}
		if n < 0 {
			return fmt.Errorf("line %d: votes %q: must be >= 0", val.Line, key.Value)
		}
		out = out.Set(key.Value, n)
	}
	*v = voteTable(out)
	return nil
}

func Default() (*Data, error) {
	return Parse(defaultYAML)
}

// Load reads path, or the embedded sample data when path is empty.
func Load(path string) (*Data, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return d, nil
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) validate() error {
	if d.Identity.Name == "" {
		return errors.New("seed: identity.name is required")
	}
	seen := make(map[string]bool, len(d.Notifications))
	for i := range d.Notifications {
		n := &d.Notifications[i]
		if n.ID == "" {
			return fmt.Errorf("seed: notification %d: id is required", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("seed: notification %q: duplicate id", n.ID)
		}
		seen[n.ID] = true
		if _, err := domain.ParseNotificationKind(string(n.Kind)); err != nil {
			return fmt.Errorf("seed: notification %q: %w", n.ID, err)
		}
		if n.RawAge == "" {
			continue
		}
		age, err := time.ParseDuration(n.RawAge)
		if err != nil {
			return fmt.Errorf("seed: notification %q age: %w", n.ID, err)
		}
		if age < 0 {
			return fmt.Errorf("seed: notification %q age: must be >= 0", n.ID)
		}
		n.Age = age
	}
	return nil
}

func (d *Data) Defaults() session.Defaults {
	return session.Defaults{
		ID:        d.Identity.ID,
		Name:      d.Identity.Name,
		Avatar:    d.Identity.Avatar,
		SignInBio: d.Identity.SignInBio,
		SignUpBio: d.Identity.SignUpBio,
	}
}

// Social materializes the collections, dating notifications back from now.
func (d *Data) Social(now time.Time) social.Seed {
	out := social.Seed{
		Friends:       make([]domain.Friend, 0, len(d.Friends)),
		Notifications: make([]domain.Notification, 0, len(d.Notifications)),
		Events:        make([]domain.Event, 0, len(d.Events)),
	}
	for _, f := range d.Friends {
		out.Friends = append(out.Friends, domain.Friend{
			ID:        f.ID,
			Name:      f.Name,
			Avatar:    f.Avatar,
			Available: f.Available,
			LastSeen:  f.LastSeen,
			Status:    f.Status,
		})
	}
	for _, n := range d.Notifications {
		out.Notifications = append(out.Notifications, domain.Notification{
			ID:        n.ID,
			Kind:      n.Kind,
			Message:   n.Message,
			From:      n.From,
			CreatedAt: now.Add(-n.Age),
			Read:      n.Read,
		})
	}
	for _, e := range d.Events {
		out.Events = append(out.Events, domain.Event{
			ID:           e.ID,
			Title:        e.Title,
			Location:     e.Location,
			Time:         e.Time,
			Organizer:    e.Organizer,
			Participants: append([]string(nil), e.Participants...),
			Votes:        domain.Votes(e.Votes).Clone(),
		})
	}
	return out
}
