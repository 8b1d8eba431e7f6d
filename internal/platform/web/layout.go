package web

import (
	"net/http"
	"strings"
	"time"

	authentities "spotlight/contexts/identity-access/authorization-service/domain/entities"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type flash struct {
	Kind    string
	Message string
}

func flashNotice(message string) flash {
	return flash{Kind: "notice", Message: message}
}

func flashError(message string) flash {
	return flash{Kind: "error", Message: message}
}

// pageContext is what every page needs about the request.
type pageContext struct {
	Viewer viewer
	CSRF   string
	Path   string
	Flash  flash
}

func (s *site) pageContext(r *http.Request) pageContext {
	page := pageContext{
		Viewer: viewerFrom(r.Context()),
		CSRF:   csrfToken(r.Context()),
		Path:   r.URL.Path,
	}
	if r.Method == http.MethodGet {
		if msg := strings.TrimSpace(r.URL.Query().Get("notice")); msg != "" {
			page.Flash = flashNotice(msg)
		}
		if msg := strings.TrimSpace(r.URL.Query().Get("error")); msg != "" {
			page.Flash = flashError(msg)
		}
	}
	return page
}

type navItem struct {
	Label string
	Href  string
}

func navFor(v viewer) []navItem {
	if !v.signedIn() {
		return []navItem{
			{Label: "Home", Href: "/"},
			{Label: "Apply as influencer", Href: "/apply-influencer"},
			{Label: "Sign in", Href: "/auth"},
		}
	}
	switch v.Role {
	case authentities.RoleAdmin:
		return []navItem{
			{Label: "Admin", Href: "/admin"},
			{Label: "Brands", Href: "/admin/brands"},
			{Label: "Influencers", Href: "/admin/influencers"},
			{Label: "Analytics", Href: "/analytics"},
		}
	case authentities.RoleBrand:
		return []navItem{
			{Label: "Dashboard", Href: "/brand-dashboard"},
			{Label: "Campaigns", Href: "/campaigns"},
			{Label: "Influencers", Href: "/influencers"},
			{Label: "Analytics", Href: "/analytics"},
		}
	default:
		return []navItem{
			{Label: "Dashboard", Href: "/dashboard"},
			{Label: "Influencers", Href: "/influencers"},
			{Label: "Analytics", Href: "/analytics"},
		}
	}
}

func appPage(page pageContext, title string, body ...Node) Node {
	links := make([]Node, 0, 4)
	for _, item := range navFor(page.Viewer) {
		className := ""
		if item.Href == page.Path {
			className = "active"
		}
		links = append(links, A(Href(item.Href), If(className != "", Class(className)), Text(item.Label)))
	}

	account := Node(nil)
	if page.Viewer.signedIn() {
		name := page.Viewer.DisplayName
		if name == "" {
			name = page.Viewer.Email
		}
		account = Form(
			Method("post"),
			Action("/auth/signout"),
			Class("inline-form"),
			csrfField(page.CSRF),
			Span(Class("muted"), Text(name)),
			If(page.Viewer.Role != authentities.RoleNone, Span(Class("badge"), Text(string(page.Viewer.Role)))),
			Button(Type("submit"), Class("btn"), Text("Sign out")),
		)
	}

	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Spotlight")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
		),
		Body(
			Header(
				Class("topbar"),
				Div(
					A(Href("/"), Class("brand"), Text("Spotlight")),
					Nav(Group(links)),
				),
				account,
			),
			Main(
				Class("content"),
				flashBanner(page.Flash),
				H1(Text(title)),
				Group(body),
			),
		),
	)
}

func flashBanner(f flash) Node {
	if f.Message == "" {
		return nil
	}
	return Div(Class("flash flash-"+f.Kind), Role("status"), Text(f.Message))
}

func errorPage(page pageContext, title, message string) Node {
	return appPage(page, title,
		Div(Class("card"),
			P(Text(message)),
			P(A(Href("/"), Text("Back to home"))),
		),
	)
}

func notFoundPage(page pageContext) Node {
	return appPage(page, "Page not found",
		Div(Class("card"),
			P(Text("We could not find "+page.Path+".")),
			P(A(Href("/"), Text("Back to home"))),
		),
	)
}

func inputField(label, name, kind, value string, errs fieldErrors, extra ...Node) Node {
	return Div(Class("field"),
		Label(For(name), Text(label)),
		Input(ID(name), Name(name), Type(kind), Value(value), Group(extra)),
		fieldError(errs, name),
	)
}

func textareaField(label, name, value string, errs fieldErrors, extra ...Node) Node {
	return Div(Class("field"),
		Label(For(name), Text(label)),
		Textarea(ID(name), Name(name), Rows("3"), Group(extra), Text(value)),
		fieldError(errs, name),
	)
}

func selectField(label, name, selected string, options []string, errs fieldErrors) Node {
	opts := make([]Node, 0, len(options)+1)
	opts = append(opts, Option(Value(""), Text("Choose...")))
	for _, option := range options {
		opts = append(opts, Option(Value(option), If(option == selected, Selected()), Text(option)))
	}
	return Div(Class("field"),
		Label(For(name), Text(label)),
		Select(ID(name), Name(name), Group(opts)),
		fieldError(errs, name),
	)
}

func fieldError(errs fieldErrors, name string) Node {
	msg, ok := errs[name]
	if !ok {
		return nil
	}
	return Div(Class("field-error"), Text(msg))
}

func hiddenInput(name, value string) Node {
	return Input(Type("hidden"), Name(name), Value(value))
}

func statusBadge(status string) Node {
	return Span(Class("badge"), Text(status))
}

func formatDate(raw string) string {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return ts.Format("Jan 2, 2006")
}
