package shell

import (
	"context"
	"fmt"
	"strings"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/viewrouter"
)

func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help":
		return c.handleHelp(rest)
	case "exit", "quit":
		fmt.Fprintln(c.Out, "À bientôt !")
		if c.RL != nil {
			if err := c.RL.Close(); err != nil {
				fmt.Fprintf(c.Out, "Error closing readline: %v\n", err)
			}
		}
		return ErrExit
	case "signin":
		return c.handleSignIn(ctx, rest)
	case "signup":
		return c.handleSignUp(ctx, rest)
	}

	if !c.WS.Session.Active() {
		if _, known := commandHelp[cmd]; known {
			return fmt.Errorf("%s: sign in first", cmd)
		}
		return fmt.Errorf("unknown command: %s", args[0])
	}

	switch cmd {
	case "signout":
		c.WS.Session.SignOut()
		fmt.Fprintln(c.Out, "Déconnecté.")
		return nil
	case "whoami":
		return c.handleWhoami()
	case "profile":
		return c.handleProfile(rest)
	case "view":
		return c.handleView(rest)
	case "home":
		return c.handleHome()
	case "friends":
		return c.handleFriends()
	case "search":
		c.WS.Social.SetSearchQuery(strings.Join(rest, " "))
		return c.handleFriends()
	case "addfriend":
		return c.handleAddFriend(rest)
	case "avail":
		return c.handleAvail(rest)
	case "notifs":
		return c.handleNotifs()
	case "read":
		if len(rest) != 1 {
			return fmt.Errorf("usage: read <id>")
		}
		c.WS.Social.MarkNotificationRead(rest[0])
		return nil
	case "readall":
		c.WS.Social.MarkAllNotificationsRead()
		fmt.Fprintln(c.Out, "Toutes les notifications sont lues.")
		return nil
	case "events":
		return c.handleEvents()
	case "event":
		return c.handleCreateEvent(rest)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (c *CLI) handleSignIn(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: signin <email> <password>")
	}
	ok, err := c.WS.Session.SignIn(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("signin: %w", err)
	}
	if !ok {
		return fmt.Errorf("signin: email and password are required")
	}
	id, _ := c.WS.Session.Current()
	fmt.Fprintf(c.Out, "Bon retour parmi nous, %s !\n", id.Name)
	return nil
}

func (c *CLI) handleSignUp(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf(`usage: signup "<name>" <email> <password>`)
	}
	ok, err := c.WS.Session.SignUp(ctx, args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	if !ok {
		return fmt.Errorf("signup: name, email and password are required")
	}
	fmt.Fprintf(c.Out, "Bienvenue, %s !\n", args[0])
	return nil
}

func (c *CLI) handleWhoami() error {
	id, _ := c.WS.Session.Current()
	fmt.Fprintf(c.Out, "%s <%s>\n", id.Name, id.Email)
	if id.Bio != "" {
		fmt.Fprintln(c.Out, id.Bio)
	}
	return nil
}

func (c *CLI) handleProfile(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: profile name|bio <value>")
	}
	value := strings.Join(args[1:], " ")
	var patch domain.IdentityPatch
	switch args[0] {
	case "name":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("profile: name must not be blank")
		}
		patch.Name = &value
	case "bio":
		patch.Bio = &value
	default:
		return fmt.Errorf("profile: unknown field %q", args[0])
	}
	c.WS.Session.UpdateProfile(patch)
	return c.handleWhoami()
}

func (c *CLI) handleView(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.Out, c.WS.Router.Current())
		return nil
	}
	v := c.WS.Router.Select(args[0])
	if string(v) != args[0] {
		fmt.Fprintf(c.Out, "Vue inconnue %q, retour à %s\n", args[0], v)
	}
	switch v {
	case viewrouter.ViewFriends:
		return c.handleFriends()
	case viewrouter.ViewEvents:
		return c.handleEvents()
	case viewrouter.ViewNotifications:
		return c.handleNotifs()
	case viewrouter.ViewProfile:
		return c.handleWhoami()
	default:
		return c.handleHome()
	}
}

func (c *CLI) handleHome() error {
	snap := c.WS.Social.Snapshot()
	id, _ := c.WS.Session.Current()
	fmt.Fprintf(c.Out, "Salut %s !\n", firstWord(id.Name))
	if snap.Available {
		fmt.Fprintln(c.Out, "Vous êtes disponible pour sortir ce soir.")
	} else {
		fmt.Fprintln(c.Out, "Vous n'êtes pas disponible ce soir.")
	}
	free := social.AvailableFriends(snap.Friends)
	fmt.Fprintf(c.Out, "Amis disponibles (%d)\n", len(free))
	for _, f := range free {
		fmt.Fprintf(c.Out, "  %s  %s\n", f.Name, f.Status)
	}
	for _, e := range social.UpcomingEvents(snap.Events, 2) {
		fmt.Fprintf(c.Out, "Sortie: %s à %s, %s\n", e.Title, e.Time, e.Location)
	}
	return nil
}

func (c *CLI) handleFriends() error {
	snap := c.WS.Social.Snapshot()
	fmt.Fprintf(c.Out, "Amis: %d, disponibles: %d, en ligne: %d\n",
		len(snap.Friends), social.CountAvailable(snap.Friends), social.CountOnline(snap.Friends))
	if snap.SearchQuery != "" {
		fmt.Fprintf(c.Out, "Recherche: %q\n", snap.SearchQuery)
	}
	for _, f := range snap.FilteredFriends() {
		mark := " "
		if f.Available {
			mark = "*"
		}
		fmt.Fprintf(c.Out, "%s %-4s %-20s %s\n", mark, f.ID, f.Name, f.LastSeen)
	}
	return nil
}

func (c *CLI) handleAddFriend(args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("usage: addfriend <name>")
	}
	c.WS.Social.AddFriend(domain.Friend{ID: c.NewID(), Name: name, LastSeen: "Invitation envoyée"})
	fmt.Fprintf(c.Out, "%s ajouté.\n", name)
	return nil
}

func (c *CLI) handleAvail(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: avail on|off")
	}
	switch args[0] {
	case "on":
		c.WS.Social.SetAvailability(true)
		fmt.Fprintln(c.Out, "Disponible ce soir.")
	case "off":
		c.WS.Social.SetAvailability(false)
		fmt.Fprintln(c.Out, "Pas dispo ce soir.")
	default:
		return fmt.Errorf("usage: avail on|off")
	}
	return nil
}

func (c *CLI) handleNotifs() error {
	snap := c.WS.Social.Snapshot()
	now := c.Now()
	fmt.Fprintf(c.Out, "Notifications: %d, non lues: %d\n", len(snap.Notifications), social.CountUnread(snap.Notifications))
	for _, n := range snap.Notifications {
		mark := " "
		if !n.Read {
			mark = "•"
		}
		fmt.Fprintf(c.Out, "%s %-4s %-15s %s (%s)\n", mark, n.ID, n.Kind, n.Message, ago(now.Sub(n.CreatedAt)))
	}
	return nil
}

func (c *CLI) handleEvents() error {
	snap := c.WS.Social.Snapshot()
	for _, e := range snap.Events {
		fmt.Fprintf(c.Out, "%s  %s à %s, %s (organisé par %s, %d participant(s))\n",
			e.ID, e.Title, e.Time, e.Location, e.Organizer, len(e.Participants))
		leaders := e.Votes.Leaders()
		for _, t := range e.Votes {
			bar := strings.Repeat("#", int(e.Votes.Share(t.Location)*10))
			mark := ""
			for _, l := range leaders {
				if l == t.Location {
					mark = " <"
				}
			}
			fmt.Fprintf(c.Out, "    %-20s %2d %-10s%s\n", t.Location, t.Count, bar, mark)
		}
	}
	return nil
}

func (c *CLI) handleCreateEvent(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf(`usage: event "<title>" "<location>" <time>`)
	}
	title, location, at := strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), strings.TrimSpace(args[2])
	if title == "" || location == "" || at == "" {
		return fmt.Errorf("event: title, location and time are required")
	}
	id, _ := c.WS.Session.Current()
	e := c.WS.Social.CreateEvent(domain.EventDraft{
		Title:        title,
		Location:     location,
		Time:         at,
		Organizer:    id.Name,
		Participants: []string{id.Name},
		Votes:        domain.Votes{}.Set(location, 1),
	})
	fmt.Fprintf(c.Out, "Sortie créée: %s (%s)\n", e.Title, e.ID)
	return nil
}

func (c *CLI) handleHelp(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.Out, "Commandes disponibles:")
		for _, name := range commandOrder {
			fmt.Fprintf(c.Out, "  %s\n", commandHelp[name])
		}
		return nil
	}
	help, ok := commandHelp[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	fmt.Fprintln(c.Out, help)
	return nil
}

var commandOrder = []string{
	"signin", "signup", "signout", "whoami", "profile", "view", "home",
	"friends", "search", "addfriend", "avail", "notifs", "read", "readall",
	"events", "event", "help", "exit",
}

var commandHelp = map[string]string{
	"signin":    "signin <email> <password>          se connecter",
	"signup":    `signup "<name>" <email> <password> créer un compte`,
	"signout":   "signout                            se déconnecter",
	"whoami":    "whoami                             afficher le profil",
	"profile":   "profile name|bio <value>           modifier le profil",
	"view":      "view [home|friends|events|notifications|profile]",
	"home":      "home                               accueil",
	"friends":   "friends                            lister les amis (recherche appliquée)",
	"search":    "search [query]                     filtrer les amis par nom",
	"addfriend": "addfriend <name>                   ajouter un ami",
	"avail":     "avail on|off                       changer sa disponibilité",
	"notifs":    "notifs                             lister les notifications",
	"read":      "read <id>                          marquer une notification comme lue",
	"readall":   "readall                            tout marquer comme lu",
	"events":    "events                             lister les sorties et les votes",
	"event":     `event "<title>" "<location>" <time> organiser une sortie`,
	"help":      "help [command]                     aide",
	"exit":      "exit                               quitter",
}
