package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// end-user surface
	api.Get(`/questionnaires/{id:^\d+$}`, PublicGetQuestionnaire(app))
	api.Post(`/questionnaires/{id:^\d+$}/responses`, PublicSubmitResponse(app))
	api.Get("/notices", PublicListNotices(app))
	api.Get(`/notices/{id:^\d+$}`, PublicGetNotice(app))
	api.Post("/notices/confirm", PublicConfirmNotice(app))
	api.Post("/notices/check_confirm", PublicCheckConfirm(app))
	api.Post("/upload/photo", UploadPhoto(app))

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Route("/admin", func(r chi.Router) {
		require := func(code string) func(http.Handler) http.Handler {
			return middlewares.Require(app.TokenSecret, code)
		}

		// questionnaires
		r.With(require("system:questionnaire:data")).Get("/questionnaires", ListQuestionnaires(app))
		r.With(require("system:questionnaire:add")).Post("/questionnaires", CreateQuestionnaire(app))
		r.With(require("system:questionnaire:data")).Get(`/questionnaires/{id:^\d+$}`, GetQuestionnaireById(app))
		r.With(require("system:questionnaire:edit")).Put(`/questionnaires/{id:^\d+$}`, UpdateQuestionnaire(app))
		r.With(require("system:questionnaire:edit")).Put(`/questionnaires/{id:^\d+$}/status`, ChangeQuestionnaireStatus(app))
		r.With(require("system:questionnaire:remove")).Delete(`/questionnaires/{id:^\d+$}`, DeleteQuestionnaire(app))

		// questions
		r.With(require("system:questionnaire:data")).Get(`/questionnaires/{id:^\d+$}/questions`, ListQuestions(app))
		r.With(require("system:questionnaire:edit")).Post("/questions", SaveQuestion(app))
		r.With(require("system:questionnaire:data")).Get(`/questions/{id:^\d+$}`, GetQuestionById(app))
		r.With(require("system:questionnaire:edit")).Put(`/questions/{id:^\d+$}`, UpdateQuestion(app))
		r.With(require("system:questionnaire:remove")).Delete(`/questions/{id:^\d+$}`, DeleteQuestion(app))

		// responses
		r.With(require("system:response:data")).Get(`/questionnaires/{id:^\d+$}/responses`, ListResponses(app))
		r.With(require("system:response:export")).Get(`/questionnaires/{id:^\d+$}/responses/export`, ExportResponses(app))
		r.With(require("system:response:data")).Get(`/responses/{id:^\d+$}`, GetResponseById(app))
		r.With(require("system:response:remove")).Delete(`/responses/{id:^\d+$}`, DeleteResponse(app))

		// notices
		r.With(require("system:notice:main")).Get("/notices", ListNotices(app))
		r.With(require("system:notice:add")).Post("/notices", CreateNotice(app))
		r.With(require("system:notice:edit")).Put(`/notices/{id:^\d+$}`, UpdateNotice(app))
		r.With(require("system:notice:remove")).Delete(`/notices/{id:^\d+$}`, DeleteNotice(app))

		// users
		r.With(require("system:user:main")).Get("/users", ListUsers(app))
		r.With(require("system:user:add")).Post("/users", CreateUser(app))
		r.With(require("system:user:edit")).Put(`/users/{id:^\d+$}`, UpdateUser(app))
		r.With(require("system:user:edit")).Put(`/users/{id:^\d+$}/password`, ResetUserPassword(app))
		r.With(require("system:user:remove")).Delete(`/users/{id:^\d+$}`, DeleteUser(app))

		// roles
		r.With(require("system:role:main")).Get("/roles", ListRoles(app))
		r.With(require("system:role:add")).Post("/roles", CreateRole(app))
		r.With(require("system:role:edit")).Put(`/roles/{id:^\d+$}`, UpdateRole(app))
		r.With(require("system:role:power")).Put(`/roles/{id:^\d+$}/powers`, AssignRolePowers(app))
		r.With(require("system:role:remove")).Delete(`/roles/{id:^\d+$}`, DeleteRole(app))

		// departments
		r.With(require("system:dept:main")).Get("/depts", ListDepts(app))
		r.With(require("system:dept:add")).Post("/depts", CreateDept(app))
		r.With(require("system:dept:edit")).Put(`/depts/{id:^\d+$}`, UpdateDept(app))
		r.With(require("system:dept:remove")).Delete(`/depts/{id:^\d+$}`, DeleteDept(app))

		// powers
		r.With(require("system:power:main")).Get("/powers", ListPowers(app))
		r.With(require("system:power:add")).Post("/powers", CreatePower(app))
		r.With(require("system:power:edit")).Put(`/powers/{id:^\d+$}`, UpdatePower(app))
		r.With(require("system:power:remove")).Delete(`/powers/{id:^\d+$}`, DeletePower(app))

		// dashboard
		r.With(require("system:dashboard:main")).Get("/dashboard/stats", DashboardStats(app))
	})

	return api
}
