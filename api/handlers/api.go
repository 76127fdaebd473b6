package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/openrms/records-api/api"
	"github.com/openrms/records-api/api/scheduler"
	"github.com/openrms/records-api/config"
	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Hub       *Hub
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper), Secret: a.Config.AuthSecret}
	m.SetupGoGuardian()

	if a.Hub == nil {
		a.Hub = NewHub()
		go a.Hub.Run()
	}

	ledger := dispatch.NewCallLedger(a.dbHelper)
	registry := dispatch.NewUnitRegistry(a.dbHelper)
	coordinator := dispatch.NewCoordinator(ledger, registry, a.Hub)

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	call := Call{DB: databases.NewCallDatabase(a.dbHelper), Ledger: ledger}
	d := Dispatch{Coordinator: coordinator}
	unit := Unit{DB: databases.NewUnitDatabase(a.dbHelper), Registry: registry}
	o := Officer{DB: databases.NewOfficerDatabase(a.dbHelper)}
	crim := Criminal{DB: databases.NewCriminalDatabase(a.dbHelper)}
	wp := WantedPerson{DB: databases.NewWantedPersonDatabase(a.dbHelper), CrimDB: databases.NewCriminalDatabase(a.dbHelper)}
	report := Report{RDB: databases.NewReportDatabase(a.dbHelper)}
	analytics := Analytics{Calls: databases.NewCallDatabase(a.dbHelper), Units: databases.NewUnitDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live change feed for the dashboard
	r.HandleFunc("/ws", a.Hub.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/call/{call_id}/dispatch", api.Middleware(http.HandlerFunc(d.DispatchCallHandler))).Methods("POST")
	apiCreate.Handle("/call/{call_id}/resolve", api.Middleware(http.HandlerFunc(d.ResolveCallHandler))).Methods("POST")
	apiCreate.Handle("/call/{call_id}", api.Middleware(http.HandlerFunc(call.CallByIDHandler))).Methods("GET")
	apiCreate.Handle("/calls", api.Middleware(http.HandlerFunc(call.CallHandler))).Methods("GET")
	apiCreate.Handle("/calls", api.Middleware(http.HandlerFunc(call.CreateCallHandler))).Methods("POST")

	apiCreate.Handle("/units/available", api.Middleware(http.HandlerFunc(unit.AvailableUnitsHandler))).Methods("GET")
	apiCreate.Handle("/unit/{unit_id}", api.Middleware(http.HandlerFunc(unit.UnitByIDHandler))).Methods("GET")
	apiCreate.Handle("/unit/{unit_id}", api.Middleware(http.HandlerFunc(unit.UpdateUnitHandler))).Methods("PUT")
	apiCreate.Handle("/unit/{unit_id}", api.Middleware(http.HandlerFunc(unit.DeleteUnitHandler))).Methods("DELETE")
	apiCreate.Handle("/unit", api.Middleware(http.HandlerFunc(unit.CreateUnitHandler))).Methods("POST")
	apiCreate.Handle("/units", api.Middleware(http.HandlerFunc(unit.UnitHandler))).Methods("GET")

	apiCreate.Handle("/officer/{officer_id}", api.Middleware(http.HandlerFunc(o.OfficerByIDHandler))).Methods("GET")
	apiCreate.Handle("/officer/{officer_id}", api.Middleware(http.HandlerFunc(o.UpdateOfficerHandler))).Methods("PUT")
	apiCreate.Handle("/officer/{officer_id}", api.Middleware(http.HandlerFunc(o.DeleteOfficerHandler))).Methods("DELETE")
	apiCreate.Handle("/officer", api.Middleware(http.HandlerFunc(o.CreateOfficerHandler))).Methods("POST")
	apiCreate.Handle("/officers", api.Middleware(http.HandlerFunc(o.OfficerHandler))).Methods("GET")

	apiCreate.Handle("/criminal/{criminal_id}/charges", api.Middleware(http.HandlerFunc(crim.AddChargeHandler))).Methods("POST")
	apiCreate.Handle("/criminal/{criminal_id}", api.Middleware(http.HandlerFunc(crim.CriminalByIDHandler))).Methods("GET")
	apiCreate.Handle("/criminal/{criminal_id}", api.Middleware(http.HandlerFunc(crim.UpdateCriminalHandler))).Methods("PUT")
	apiCreate.Handle("/criminal/{criminal_id}", api.Middleware(http.HandlerFunc(crim.DeleteCriminalHandler))).Methods("DELETE")
	apiCreate.Handle("/criminal", api.Middleware(http.HandlerFunc(crim.CreateCriminalHandler))).Methods("POST")
	apiCreate.Handle("/criminals", api.Middleware(http.HandlerFunc(crim.CriminalHandler))).Methods("GET")

	apiCreate.Handle("/wanted/{entry_id}", api.Middleware(http.HandlerFunc(wp.GetWantedPersonByIDHandler))).Methods("GET")
	apiCreate.Handle("/wanted/{entry_id}", api.Middleware(http.HandlerFunc(wp.UpdateWantedPersonHandler))).Methods("PUT")
	apiCreate.Handle("/wanted/{entry_id}", api.Middleware(http.HandlerFunc(wp.DeleteWantedPersonHandler))).Methods("DELETE")
	apiCreate.Handle("/wanted", api.Middleware(http.HandlerFunc(wp.CreateWantedPersonHandler))).Methods("POST")
	apiCreate.Handle("/wanted", api.Middleware(http.HandlerFunc(wp.FetchWantedPersonsHandler))).Methods("GET")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(report.FetchReportsHandler))).Methods("GET")

	apiCreate.Handle("/analytics/summary", api.Middleware(http.HandlerFunc(analytics.SummaryHandler))).Methods("GET")
	apiCreate.Handle("/analytics/export", api.Middleware(http.HandlerFunc(analytics.ExportCallsHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")
	apiCreate.Handle("/upload-image", api.Middleware(http.HandlerFunc(cloudinaryHandler.UploadImageHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("records-api has connected to the database")

	// start the background jobs
	a.Scheduler = scheduler.NewScheduler(
		databases.NewCallDatabase(a.dbHelper),
		databases.NewUnitDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
