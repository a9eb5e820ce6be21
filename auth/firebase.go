package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// NewFirebaseApp initialises the admin SDK from a JSON credentials blob. An empty blob falls
// back to application default credentials.
func NewFirebaseApp(ctx context.Context, projectID, credentialsJSON string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}

type Firebase struct {
	client    *fbauth.Client
	projectID string
}

var _ Provider = (*Firebase)(nil)

func NewFirebase(ctx context.Context, app *firebase.App, projectID string) (*Firebase, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Firebase{client: client, projectID: projectID}, nil
}

func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("id token rejected")
		return Identity{}, ErrInvalidToken
	}
	if token.Audience != f.projectID {
		log.Ctx(ctx).Warn().Str("audience", token.Audience).Msg("id token audience mismatch")
		return Identity{}, ErrInvalidToken
	}

	id := Identity{UID: token.UID, Role: models.RoleUser}
	id.Email, _ = token.Claims["email"].(string)
	id.Name, _ = token.Claims["name"].(string)
	if role, ok := token.Claims["role"].(string); ok && role != "" {
		id.Role = role
	}
	return id, nil
}

func (f *Firebase) SignUp(ctx context.Context, email, password, name string) (Identity, error) {
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)
	if name != "" {
		params = params.DisplayName(name)
	}
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, fmt.Errorf("create firebase user: %w", err)
	}
	return Identity{UID: rec.UID, Email: rec.Email, Name: rec.DisplayName, Role: models.RoleUser}, nil
}

func (f *Firebase) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		if fbauth.IsUserNotFound(err) || fbauth.IsEmailNotFound(err) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("password reset link: %w", err)
	}
	return link, nil
}

// SetRole writes the role custom claim. It takes effect on the user's next ID token.
func (f *Firebase) SetRole(ctx context.Context, uid, role string) error {
	if err := f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role}); err != nil {
		if fbauth.IsUserNotFound(err) {
			return ErrUnknownUser
		}
		return fmt.Errorf("set role claim: %w", err)
	}
	return nil
}
