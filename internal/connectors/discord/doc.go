// Package discord connects the message index to Discord.
//
// A Gateway holds the bot session: it subscribes to guild message events
// and hands each new message to an IndexService. History pages through
// past channel messages over the REST API for backfills.
//
// Both convert discordgo messages to domain.RawMessage. Snowflakes that do
// not parse and messages without an author are reported as
// domain.ErrMalformedMessage.
package discord
