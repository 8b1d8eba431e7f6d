package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spotlight/contexts/identity-access/identity-service/adapters/memory"
	"spotlight/contexts/identity-access/identity-service/adapters/security"
	"spotlight/contexts/identity-access/identity-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/identity-service/domain/errors"
	"spotlight/contexts/identity-access/identity-service/ports"

	"golang.org/x/crypto/bcrypt"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingProfiles struct {
	provisioned map[string]string
	roles       map[string]string
	failNext    error
}

func (p *recordingProfiles) Provision(_ context.Context, accountID string, _ string, role string) error {
	if err := p.failNext; err != nil {
		p.failNext = nil
		return err
	}
	if p.provisioned == nil {
		p.provisioned = map[string]string{}
	}
	p.provisioned[accountID] = role
	return nil
}

func (p *recordingProfiles) SetRole(_ context.Context, accountID string, role string) error {
	if p.roles == nil {
		p.roles = map[string]string{}
	}
	p.roles[accountID] = role
	return nil
}

type recordingOutbox struct {
	events []ports.EventEnvelope
}

func (o *recordingOutbox) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	o.events = append(o.events, envelope)
	return nil
}

type fixture struct {
	service  Service
	store    *memory.Store
	clock    *stepClock
	profiles *recordingProfiles
	outbox   *recordingOutbox
}

func newFixture(t *testing.T, requireVerification bool) fixture {
	t.Helper()
	signer, err := security.NewEphemeralJWTSigner("spotlight-test")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	store := memory.NewStore()
	clock := &stepClock{now: time.Now().UTC()}
	profiles := &recordingProfiles{}
	outbox := &recordingOutbox{}
	return fixture{
		service: Service{
			Accounts:                 store,
			Sessions:                 store,
			Verifications:            store,
			Tokens:                   signer,
			Passwords:                security.NewBcryptHasher(bcrypt.MinCost),
			Revocations:              store,
			Profiles:                 profiles,
			Outbox:                   outbox,
			Clock:                    clock,
			IDGenerator:              store,
			RequireEmailVerification: requireVerification,
			AdminInviteCode:          "invite-123",
		},
		store:    store,
		clock:    clock,
		profiles: profiles,
		outbox:   outbox,
	}
}

func (f fixture) signUp(t *testing.T, email string, role string) entities.Account {
	t.Helper()
	input := SignUpInput{Email: email, Password: "password-1", Role: role}
	if role == string(entities.RoleAdmin) {
		input.AdminInviteCode = "invite-123"
	}
	result, err := f.service.SignUp(context.Background(), input)
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	return result.Account
}

func TestSignUpProvisionsProfileAndEmitsEvent(t *testing.T) {
	f := newFixture(t, false)
	account := f.signUp(t, "Brand@Example.com", "brand")

	if account.Email != "brand@example.com" {
		t.Fatalf("expected normalized email, got %q", account.Email)
	}
	if account.DisplayName != "brand" {
		t.Fatalf("expected display name derived from email, got %q", account.DisplayName)
	}
	if !account.Verified() {
		t.Fatalf("expected account verified when verification disabled")
	}
	if f.profiles.provisioned[account.AccountID] != "brand" {
		t.Fatalf("expected profile provisioned with brand role")
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != "account.registered" {
		t.Fatalf("expected account.registered event, got %+v", f.outbox.events)
	}
	if f.outbox.events[0].PartitionKey != account.AccountID {
		t.Fatalf("expected partition key to be account id")
	}
}

func TestSignUpRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SignUpInput
		want  error
	}{
		{"bad email", SignUpInput{Email: "nope", Password: "password-1", Role: "brand"}, domainerrors.ErrInvalidInput},
		{"short password", SignUpInput{Email: "a@b.co", Password: "short", Role: "brand"}, domainerrors.ErrInvalidInput},
		{"unknown role", SignUpInput{Email: "a@b.co", Password: "password-1", Role: "owner"}, domainerrors.ErrInvalidRole},
		{"admin without invite", SignUpInput{Email: "a@b.co", Password: "password-1", Role: "admin"}, domainerrors.ErrAdminInviteRequired},
		{"admin wrong invite", SignUpInput{Email: "a@b.co", Password: "password-1", Role: "admin", AdminInviteCode: "guess"}, domainerrors.ErrAdminInviteRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.service.SignUp(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, false)
	f.signUp(t, "dup@example.com", "brand")

	_, err := f.service.SignUp(context.Background(), SignUpInput{Email: "DUP@example.com", Password: "password-1", Role: "influencer"})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestSignUpRetriesAfterProfileProvisioningFails(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	errProfilesDown := errors.New("profiles db down")
	f.profiles.failNext = errProfilesDown

	input := SignUpInput{Email: "retry@example.com", Password: "password-1", Role: "brand"}
	if _, err := f.service.SignUp(ctx, input); !errors.Is(err, errProfilesDown) {
		t.Fatalf("expected provisioning error, got %v", err)
	}
	if _, err := f.store.GetAccountByEmail(ctx, "retry@example.com"); !errors.Is(err, domainerrors.ErrAccountNotFound) {
		t.Fatalf("expected no account left behind, got %v", err)
	}
	if len(f.outbox.events) != 0 {
		t.Fatalf("expected no registration event, got %d", len(f.outbox.events))
	}

	result, err := f.service.SignUp(ctx, input)
	if err != nil {
		t.Fatalf("retry sign up: %v", err)
	}
	if f.profiles.provisioned[result.Account.AccountID] != "brand" {
		t.Fatalf("expected profile provisioned on retry")
	}
	if _, err := f.service.SignIn(ctx, "retry@example.com", "password-1"); err != nil {
		t.Fatalf("sign in after retry: %v", err)
	}
}

func TestVerificationRequiredBeforeSignIn(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	account := f.signUp(t, "new@example.com", "influencer")

	if _, err := f.service.SignIn(ctx, "new@example.com", "password-1"); !errors.Is(err, domainerrors.ErrEmailNotVerified) {
		t.Fatalf("expected email not verified, got %v", err)
	}

	token, ok := f.store.PendingVerificationToken(account.AccountID)
	if !ok {
		t.Fatalf("expected pending verification token")
	}
	verified, err := f.service.VerifyEmail(ctx, token)
	if err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !verified.Verified() {
		t.Fatalf("expected verified account")
	}
	if _, err := f.service.VerifyEmail(ctx, token); !errors.Is(err, domainerrors.ErrInvalidVerificationToken) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}
	if _, err := f.service.SignIn(ctx, "new@example.com", "password-1"); err != nil {
		t.Fatalf("sign in after verification: %v", err)
	}
}

func TestVerificationTokenExpires(t *testing.T) {
	f := newFixture(t, true)
	account := f.signUp(t, "late@example.com", "brand")
	token, _ := f.store.PendingVerificationToken(account.AccountID)

	f.clock.Advance(49 * time.Hour)
	if _, err := f.service.VerifyEmail(context.Background(), token); !errors.Is(err, domainerrors.ErrInvalidVerificationToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	f := newFixture(t, false)
	f.signUp(t, "user@example.com", "brand")

	if _, err := f.service.SignIn(context.Background(), "user@example.com", "wrong-password"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := f.service.SignIn(context.Background(), "ghost@example.com", "password-1"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown account, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	account := f.signUp(t, "user@example.com", "brand")

	signIn, err := f.service.SignIn(ctx, "user@example.com", "password-1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	view, err := f.service.GetSession(ctx, signIn.AccessToken)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if view.Account.AccountID != account.AccountID || view.Session.SessionID != signIn.Session.SessionID {
		t.Fatalf("unexpected session view %+v", view)
	}

	if err := f.service.SignOut(ctx, signIn.AccessToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if err := f.service.SignOut(ctx, signIn.AccessToken); err != nil {
		t.Fatalf("second sign out should succeed, got %v", err)
	}
	if _, err := f.service.GetSession(ctx, signIn.AccessToken); !errors.Is(err, domainerrors.ErrSessionRevoked) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.signUp(t, "user@example.com", "brand")
	signIn, err := f.service.SignIn(ctx, "user@example.com", "password-1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	f.clock.Advance(25 * time.Hour)
	if _, err := f.service.GetSession(ctx, signIn.AccessToken); !errors.Is(err, domainerrors.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestGetSessionRejectsGarbageToken(t *testing.T) {
	f := newFixture(t, false)
	for _, token := range []string{"", "   ", "not-a-jwt"} {
		if _, err := f.service.GetSession(context.Background(), token); !errors.Is(err, domainerrors.ErrUnauthorized) {
			t.Fatalf("token %q: expected unauthorized, got %v", token, err)
		}
	}
}

func TestSetUserRoleByAdmin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	admin := f.signUp(t, "admin@example.com", "admin")
	user := f.signUp(t, "user@example.com", "influencer")
	signIn, err := f.service.SignIn(ctx, "user@example.com", "password-1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	updated, err := f.service.SetUserRole(ctx, admin.AccountID, "USER@example.com", "brand")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.Role != entities.RoleBrand {
		t.Fatalf("expected brand role, got %s", updated.Role)
	}
	if f.profiles.roles[user.AccountID] != "brand" {
		t.Fatalf("expected profile role updated")
	}
	last := f.outbox.events[len(f.outbox.events)-1]
	if last.EventType != "account.role_changed" {
		t.Fatalf("expected account.role_changed, got %s", last.EventType)
	}

	view, err := f.service.GetSession(ctx, signIn.AccessToken)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if view.Account.Role != entities.RoleBrand {
		t.Fatalf("expected existing session to observe elevated role, got %s", view.Account.Role)
	}

	before := len(f.outbox.events)
	if _, err := f.service.SetUserRole(ctx, admin.AccountID, "user@example.com", "brand"); err != nil {
		t.Fatalf("repeat set role: %v", err)
	}
	if len(f.outbox.events) != before {
		t.Fatalf("expected no event when role unchanged")
	}
}

func TestSetUserRoleRequiresAdmin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	brand := f.signUp(t, "brand@example.com", "brand")
	f.signUp(t, "user@example.com", "influencer")

	if _, err := f.service.SetUserRole(ctx, brand.AccountID, "user@example.com", "admin"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.service.SetUserRole(ctx, "", "user@example.com", "brand"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSetUserRoleUnknownTarget(t *testing.T) {
	f := newFixture(t, false)
	admin := f.signUp(t, "admin@example.com", "admin")

	_, err := f.service.SetUserRole(context.Background(), admin.AccountID, "missing@example.com", "brand")
	if !errors.Is(err, domainerrors.ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
	if _, err := f.service.SetUserRole(context.Background(), admin.AccountID, "missing@example.com", "owner"); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}
