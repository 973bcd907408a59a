package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

// githubUser is the portion of the /user response we care about. GitHub may
// omit the email when the user hides it in their profile settings.
type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

type GitHubProvider struct {
	config *oauth2.Config
}

func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string { return ProviderGitHub }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token and fetches the
// authenticated user. A hidden email falls back to the noreply address GitHub
// reserves per account, so the login still succeeds with a stable identity.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging github code: %w", err)
	}

	client := p.config.Client(ctx, tok)
	resp, err := client.Get(githubUserURL)
	if err != nil {
		return nil, fmt.Errorf("oauth: calling github /user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: github /user returned status %d", resp.StatusCode)
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("oauth: decoding github /user: %w", err)
	}
	if gu.ID == 0 {
		return nil, fmt.Errorf("oauth: github returned an invalid user")
	}

	email := gu.Email
	if email == "" {
		if gu.Login == "" {
			return nil, ErrNoEmail
		}
		email = gu.Login + "@users.noreply.github.com"
	}

	return &Profile{
		Provider:   ProviderGitHub,
		ProviderID: strconv.FormatInt(gu.ID, 10),
		Email:      email,
		Username:   gu.Login,
	}, nil
}
