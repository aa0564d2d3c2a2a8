package handlers

import (
	"net/http"

	"github.com/gartstein/incubator/internal/incubator/auth"
	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gorilla/mux"
)

// NewRouter wires every route behind its gate. Tenant routes additionally
// require the {qualite}/{id} tenant to belong to the caller's company, and
// the search, export and import routes require the same of batiment_id.
func NewRouter(h *Handler, gate *auth.Middleware, m *metrics.Metrics) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestID, recoverer(h.logger), accessLog(h.logger), m.Middleware)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(gate.Authenticate)

	user := func(fn http.HandlerFunc) http.Handler { return fn }
	admin := func(fn http.HandlerFunc) http.Handler { return gate.RequireAdmin(fn) }
	tenant := gate.RequireTenant
	building := gate.RequireBuilding

	api.Handle("/tiers/", building(user(h.SearchTenants))).Methods(http.MethodGet)
	api.Handle("/tiers/export", building(user(h.ExportTenants))).Methods(http.MethodGet)
	api.Handle("/tiers/import/{qualite}", admin(building(http.HandlerFunc(h.ImportTenants)).ServeHTTP)).Methods(http.MethodPost)

	api.Handle("/formules", user(h.ListFormulaTypes)).Methods(http.MethodGet)
	api.Handle("/formules", admin(h.CreateFormulaType)).Methods(http.MethodPost)
	api.Handle("/batiments", user(h.ListBuildings)).Methods(http.MethodGet)
	api.Handle("/batiments", admin(h.CreateBuilding)).Methods(http.MethodPost)

	type route struct {
		path   string
		method string
		gate   func(http.HandlerFunc) http.Handler
		fn     http.HandlerFunc
	}
	tenantRoutes := []route{
		{"/tiers/formule/{qualite}/{id}", http.MethodGet, user, h.ListAssignments},
		{"/tiers/formule/{qualite}/{id}", http.MethodPost, admin, h.CreateAssignment},
		{"/tiers/formule/{qualite}/{id}/{form_id}", http.MethodPut, admin, h.UpdateAssignment},
		{"/tiers/formule/{qualite}/{id}/{form_id}", http.MethodDelete, admin, h.DeleteAssignment},

		{"/tiers/effectif/{qualite}/{id}", http.MethodGet, user, h.ListWorkforce},
		{"/tiers/effectif/{qualite}/{id}", http.MethodPost, admin, h.CreateWorkforce},
		{"/tiers/effectif/{qualite}/{id}/{year}", http.MethodPut, admin, h.UpdateWorkforce},
		{"/tiers/effectif/{qualite}/{id}/{year}", http.MethodDelete, admin, h.DeleteWorkforce},

		{"/tiers/ca/{qualite}/{id}", http.MethodGet, user, h.ListRevenue},
		{"/tiers/ca/{qualite}/{id}", http.MethodPost, admin, h.CreateRevenue},
		{"/tiers/ca/{qualite}/{id}/{year}", http.MethodPut, admin, h.UpdateRevenue},
		{"/tiers/ca/{qualite}/{id}/{year}", http.MethodDelete, admin, h.DeleteRevenue},

		{"/tiers/sortie/{qualite}/{id}", http.MethodGet, user, h.GetExit},
		{"/tiers/sortie/{qualite}/{id}", http.MethodPut, admin, h.RecordExit},
		{"/tiers/postpep/{qualite}/{id}", http.MethodGet, user, h.GetPostIncubation},
		{"/tiers/postpep/{qualite}/{id}", http.MethodPut, admin, h.RecordPostIncubation},
		{"/tiers/premier-rdv/{qualite}/{id}", http.MethodGet, user, h.GetFirstMeeting},
		{"/tiers/premier-rdv/{qualite}/{id}", http.MethodPut, admin, h.RecordFirstMeeting},

		{"/tiers/relation/{qualite}/{id}", http.MethodGet, user, h.ListRelations},
		{"/tiers/relation/{qualite}/{id}", http.MethodPost, admin, h.CreateRelation},
		{"/tiers/relation/{qualite}/{id}/{rel_id}", http.MethodPut, admin, h.UpdateRelation},
		{"/tiers/relation/{qualite}/{id}/{rel_id}", http.MethodDelete, admin, h.DeleteRelation},

		{"/tiers/suivi/{qualite}/{id}", http.MethodGet, user, h.ListFollowUps},
		{"/tiers/suivi/{qualite}/{id}", http.MethodPost, admin, h.CreateFollowUp},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}", http.MethodPut, admin, h.UpdateFollowUp},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}", http.MethodDelete, admin, h.DeleteFollowUp},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers", http.MethodGet, user, h.ListFollowUpFiles},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers", http.MethodPost, admin, h.UploadFollowUpFile},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers/{name}/archive", http.MethodPost, admin, h.ArchiveFollowUpFile},
		{"/tiers/suivi/{qualite}/{id}/{suivi_id}/fichiers/{name}", http.MethodDelete, admin, h.DeleteFollowUpFile},

		{"/tiers/projet/{qualite}/{id}", http.MethodGet, user, h.ListProjects},
		{"/tiers/projet/{qualite}/{id}", http.MethodPost, admin, h.CreateProject},
		{"/tiers/projet/{qualite}/{id}/{projet_id}", http.MethodPut, admin, h.UpdateProject},
		{"/tiers/projet/{qualite}/{id}/{projet_id}", http.MethodDelete, admin, h.DeleteProject},

		{"/tiers/{qualite}/{id}", http.MethodGet, user, h.GetTenant},
		{"/tiers/{qualite}/{id}", http.MethodPut, admin, h.UpdateTenant},
		{"/tiers/{qualite}/{id}", http.MethodDelete, admin, h.DeleteTenant},
	}
	for _, rt := range tenantRoutes {
		api.Handle(rt.path, rt.gate(tenant(rt.fn).ServeHTTP)).Methods(rt.method)
	}

	api.Handle("/tiers/{qualite}", admin(h.CreateTenant)).Methods(http.MethodPost)
	return router
}
