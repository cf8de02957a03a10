package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Discord-specific errors.
var (
	// ErrNoToken indicates no bot token was configured.
	ErrNoToken = errors.New("discord: no bot token configured")

	// ErrInvalidChannel indicates a channel id is not a snowflake.
	ErrInvalidChannel = errors.New("discord: invalid channel id")
)

// IsUnauthorized checks if the error indicates a rejected bot token.
func IsUnauthorized(err error) bool {
	return statusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error indicates the bot cannot read a channel.
func IsForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil &&
		restErr.Message.Code == discordgo.ErrCodeMissingAccess {
		return true
	}
	return statusCode(err) == http.StatusForbidden
}

// IsNotFound checks if the error indicates an unknown channel.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

func statusCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}
