package web

import (
	"net/http"

	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"

	"github.com/google/uuid"
)

func (s *site) landing(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, landingPage(s.pageContext(r), s.samples.Testimonials))
}

func (s *site) applyPage(w http.ResponseWriter, r *http.Request) {
	form := applicationForm{IdempotencyKey: uuid.NewString(), Handles: map[string]string{}}
	renderHTML(w, http.StatusOK, applyPage(s.pageContext(r), form))
}

func (s *site) applySubmit(w http.ResponseWriter, r *http.Request) {
	form := applicationFormFrom(r)
	if form.IdempotencyKey == "" {
		form.IdempotencyKey = uuid.NewString()
	}
	page := s.pageContext(r)
	if errs := form.validate(); len(errs) > 0 {
		form.Errors = errs
		renderHTML(w, http.StatusUnprocessableEntity, applyPage(page, form))
		return
	}

	result, err := s.deps.Applications.Handler.SubmitApplicationHandler(r.Context(), form.IdempotencyKey, onboardinghttp.SubmitApplicationRequest{
		FullName:       form.FullName,
		Email:          form.Email,
		Phone:          form.Phone,
		Niche:          form.Niche,
		FollowerCount:  form.followerCount(),
		EngagementRate: form.engagementRate(),
		PortfolioURL:   form.PortfolioURL,
		SocialHandles:  form.Handles,
		Bio:            form.Bio,
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_application_submit_failed", err)
		page.Flash = flashError("Could not submit your application: " + userMessage(err))
		renderHTML(w, statusFor(err), applyPage(page, form))
		return
	}
	renderHTML(w, http.StatusOK, applyThanksPage(page, result.Data.FullName))
}
