package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailHandler fetches resume documents mailed to the user (for example a
// resume exported from a phone) into the uploads directory.
type GmailHandler struct {
	service    *gmail.Service
	uploadsDir string
}

// NewGmailHandler creates a Gmail handler using the OAuth credentials file
// at credentialsPath and a cached token next to it.
func NewGmailHandler(ctx context.Context, credentialsPath, uploadsDir string) (*GmailHandler, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := getClient(ctx, config, filepath.Join(filepath.Dir(credentialsPath), "token.json"))
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{service: srv, uploadsDir: uploadsDir}, nil
}

// getClient builds an authorized HTTP client from a cached token, running
// the interactive authorization flow when no token is cached yet.
func getClient(ctx context.Context, config *oauth2.Config, tokenPath string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		saveToken(tokenPath, tok)
	}
	return config.Client(ctx, tok), nil
}

func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("Unable to cache oauth token: %v", err)
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		log.Printf("Unable to encode oauth token: %v", err)
	}
}

// FetchResumeAttachments downloads supported resume attachments from
// messages matching the subject filter into the uploads directory and
// returns the saved filenames.
func (gh *GmailHandler) FetchResumeAttachments(ctx context.Context, subject string) ([]string, error) {
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	query := fmt.Sprintf("subject:%s has:attachment", subject)
	list, err := gh.service.Users.Messages.List("me").Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}
	if len(list.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var saved []string
	for _, msg := range list.Messages {
		message, err := gh.service.Users.Messages.Get("me", msg.Id).Context(ctx).Do()
		if err != nil {
			log.Printf("Unable to retrieve message %s: %v", msg.Id, err)
			continue
		}

		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body.AttachmentId == "" || !IsSupported(part.Filename) {
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get("me", msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				log.Printf("Unable to retrieve attachment %s: %v", part.Filename, err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				log.Printf("Unable to decode attachment %s: %v", part.Filename, err)
				continue
			}

			path := filepath.Join(gh.uploadsDir, filepath.Base(part.Filename))
			if err := os.WriteFile(path, data, 0644); err != nil {
				log.Printf("Unable to write file %s: %v", path, err)
				continue
			}
			saved = append(saved, filepath.Base(part.Filename))
		}
	}

	if len(saved) == 0 {
		return nil, fmt.Errorf("no supported resume attachments found for subject: %s", subject)
	}
	return saved, nil
}
