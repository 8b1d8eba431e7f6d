package web

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func landingPage(page pageContext, testimonials []testimonial) Node {
	quotes := make([]Node, 0, len(testimonials))
	for _, item := range testimonials {
		quotes = append(quotes, Div(Class("card"),
			P(Text("“"+item.Quote+"”")),
			P(Class("muted"), Strong(Text(item.Author)), Text(", "+item.Company)),
		))
	}
	cta := Group{
		A(Href("/auth"), Class("btn btn-primary"), Text("Start a campaign")),
		Text(" "),
		A(Href("/apply-influencer"), Class("btn"), Text("Apply as an influencer")),
	}
	if page.Viewer.signedIn() {
		cta = Group{A(Href("/dashboard"), Class("btn btn-primary"), Text("Go to your dashboard"))}
	}
	return appPage(page, "Influencer campaigns, reviewed and tracked",
		Section(Class("hero"),
			P(Class("muted"), Text("Brands brief campaigns, our team reviews them, and vetted creators bring them to life.")),
			P(cta),
		),
		H2(Text("What our customers say")),
		Div(Class("grid"), Group(quotes)),
	)
}

func authPage(page pageContext, signIn signInForm, signUp signUpForm) Node {
	return appPage(page, "Welcome",
		Div(Class("grid"),
			Div(Class("card"),
				H2(Text("Sign in")),
				Form(
					Method("post"),
					Action("/auth/signin"),
					csrfField(page.CSRF),
					inputField("Email", "email", "email", signIn.Email, signIn.Errors, AutoComplete("email")),
					inputField("Password", "password", "password", "", signIn.Errors, AutoComplete("current-password")),
					Button(Type("submit"), Class("btn btn-primary"), Text("Sign in")),
				),
			),
			Div(Class("card"),
				H2(Text("Create an account")),
				Form(
					Method("post"),
					Action("/auth/signup"),
					csrfField(page.CSRF),
					inputField("Email", "signup_email", "email", signUp.Email, renameError(signUp.Errors, "email", "signup_email")),
					inputField("Password", "signup_password", "password", "", renameError(signUp.Errors, "password", "signup_password"), AutoComplete("new-password")),
					inputField("Display name", "display_name", "text", signUp.DisplayName, signUp.Errors),
					selectField("I am a", "role", signUp.Role, []string{"brand", "influencer"}, signUp.Errors),
					Button(Type("submit"), Class("btn btn-primary"), Text("Sign up")),
				),
			),
		),
	)
}

// renameError moves a message to the field name used in the rendered form
// when two forms on one page share a logical field.
func renameError(errs fieldErrors, from, to string) fieldErrors {
	if msg, ok := errs[from]; ok {
		return fieldErrors{to: msg}
	}
	return nil
}

func applyPage(page pageContext, form applicationForm) Node {
	handles := make([]Node, 0, len(applicationHandleFields))
	for _, platform := range applicationHandleFields {
		handles = append(handles, inputField(strings.ToUpper(platform[:1])+platform[1:]+" handle", "handle_"+platform, "text", form.Handles[platform], nil))
	}
	return appPage(page, "Apply to join as an influencer",
		Div(Class("card"),
			P(Class("muted"), Text("Tell us about your audience. Our team reviews every application.")),
			Form(
				Method("post"),
				Action("/apply-influencer"),
				csrfField(page.CSRF),
				hiddenInput("idempotency_key", form.IdempotencyKey),
				inputField("Full name", "full_name", "text", form.FullName, form.Errors),
				inputField("Email", "email", "email", form.Email, form.Errors),
				inputField("Phone", "phone", "tel", form.Phone, form.Errors),
				inputField("Niche", "niche", "text", form.Niche, form.Errors, Placeholder("fitness, travel, food...")),
				inputField("Follower count", "follower_count", "number", form.FollowerCount, form.Errors, Min("0")),
				inputField("Engagement rate (%)", "engagement_rate", "number", form.EngagementRate, form.Errors, Min("0"), Max("100"), Attr("step", "0.1")),
				inputField("Portfolio link", "portfolio_url", "url", form.PortfolioURL, form.Errors),
				Group(handles),
				fieldError(form.Errors, "handles"),
				textareaField("Short bio", "bio", form.Bio, form.Errors),
				Button(Type("submit"), Class("btn btn-primary"), Text("Submit application")),
			),
		),
	)
}

func applyThanksPage(page pageContext, name string) Node {
	return appPage(page, "Application received",
		Div(Class("card"),
			P(Text("Thanks, "+name+". Your application is pending review and we will reach out by email.")),
			P(A(Href("/"), Text("Back to home"))),
		),
	)
}
