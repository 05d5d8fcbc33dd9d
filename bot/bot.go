package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/mapimg"
	"github.com/HavenSelph/NamelessBot/whitelist"
)

// memberPageSize is the discord API maximum for one guild member list call
const memberPageSize = 1000

// Service wraps the discord session: it registers the slash commands,
// dispatches interactions to the whitelist engine and reacts to members
// leaving the guild
type Service struct {
	session   *discordgo.Session
	whitelist *whitelist.Service
	maps      *mapimg.Generator
	guildID   string
	logger    *logrus.Entry
}

// NewService creates the bot service around a fresh discord session.
// maps may be nil when map rendering is not configured
func NewService(token, guildID string, wl *whitelist.Service, maps *mapimg.Generator, logger *logrus.Entry) (*Service, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	svc := &Service{
		session:   session,
		whitelist: wl,
		maps:      maps,
		guildID:   guildID,
		logger:    logger,
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	session.AddHandler(svc.handleReady)
	session.AddHandler(svc.handleInteraction)
	session.AddHandler(svc.handleMemberRemove)
	return svc, nil
}

// Open connects the gateway session
func (svc *Service) Open() error {
	return svc.session.Open()
}

// Close disconnects the gateway session
func (svc *Service) Close() error {
	return svc.session.Close()
}

func (svc *Service) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	svc.logger.WithFields(logrus.Fields{
		"user": r.User.Username,
	}).Info("Logged in successfully")

	// Guild-scoped registration propagates quickly, unlike global commands
	registered, err := s.ApplicationCommandBulkOverwrite(r.User.ID, svc.guildID, commands(svc.maps != nil))
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to register application commands")
		return
	}
	svc.logger.WithFields(logrus.Fields{
		"count": len(registered),
	}).Info("Registered application commands")
}

// handleMemberRemove is the fast path for users leaving the guild. The audit
// pass backstops events missed while the bot was offline
func (svc *Service) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.GuildID != svc.guildID {
		return
	}
	res, err := svc.whitelist.RemoveForUser(context.Background(), m.User.ID)
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"discord": m.User.ID,
			"err":     err.Error(),
		}).Error("Unable to remove whitelist entries for departed member")
		return
	}
	if res.Acknowledged && res.DeletedCount > 0 {
		svc.logger.WithFields(logrus.Fields{
			"discord": m.User.ID,
			"user":    m.User.Username,
			"count":   res.DeletedCount,
		}).Info("Removed whitelist entries for departed member")
	}
}

// MemberIDs fetches the full membership id list of the configured guild.
// It implements whitelist.MemberLister for the audit pass
func (svc *Service) MemberIDs() ([]string, error) {
	ids := make([]string, 0)
	after := ""
	for {
		members, err := svc.session.GuildMembers(svc.guildID, after, memberPageSize)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			ids = append(ids, member.User.ID)
		}
		if len(members) < memberPageSize {
			return ids, nil
		}
		after = members[len(members)-1].User.ID
	}
}
