package gateway

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/rahul/bahas/internal/workflow"
)

type DiscordGateway struct {
	Session    *discordgo.Session
	Entry      workflow.Handler
	Structured bool
}

func NewDiscordGateway(token string, entry workflow.Handler, structured bool) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return &DiscordGateway{
		Session:    session,
		Entry:      entry,
		Structured: structured,
	}, nil
}

func (d *DiscordGateway) Start() error {
	d.Session.AddHandler(d.onMessage)
	return d.Session.Open()
}

func (d *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore our own messages and other bots.
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	log.Printf("[%s] %s", m.Author.Username, m.Content)

	ctx := context.Background()
	response, err := dispatch(ctx, d.Entry, d.Structured, m.ChannelID, m.Content)
	if err != nil {
		log.Printf("Error handling message: %v", err)
		response = "I'm having trouble thinking right now..."
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, response); err != nil {
		log.Printf("Error sending Discord reply: %v", err)
	}
}

func (d *DiscordGateway) Send(chatID string, text string) error {
	_, err := d.Session.ChannelMessageSend(chatID, text)
	return err
}

func (d *DiscordGateway) Stop() error {
	return d.Session.Close()
}
