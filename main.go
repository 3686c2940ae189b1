package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nicunursekatie/sandwichsync-sub004/handlers"
	"github.com/nicunursekatie/sandwichsync-sub004/logging"
	"github.com/nicunursekatie/sandwichsync-sub004/middleware"
	"github.com/nicunursekatie/sandwichsync-sub004/repositories"
	"github.com/nicunursekatie/sandwichsync-sub004/services"
	"github.com/nicunursekatie/sandwichsync-sub004/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Sandwich Tasks Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	taskRepo := repositories.NewTaskRepository(db.Collection("tasks"))
	completionRepo := repositories.NewCompletionRepository(db.Collection("task_completions"))
	if err := completionRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to ensure completion indexes: %v", err)
	}

	usersBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "UsersServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	directory := services.NewUserDirectoryClient(os.Getenv("USERS_SERVICE_URL"), utils.NewHTTPClient(), usersBreaker)

	taskService := services.NewTaskService(taskRepo, completionRepo)
	completionService := services.NewCompletionService(taskRepo, completionRepo)
	taskHandler := handlers.NewTaskHandler(taskService)
	completionHandler := handlers.NewCompletionHandler(completionService, directory)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/all", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/project/{projectID}", taskHandler.GetTasksByProjectID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/completions", completionHandler.GetCompletions).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/complete", completionHandler.CompleteTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/complete", completionHandler.UncompleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/progress", completionHandler.GetTaskProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/assignees", taskHandler.AddAssignees).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/assignees/{userID}", taskHandler.RemoveAssignee).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	corsRouter := enableCORS(middleware.JWTAuthMiddleware(r))

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
