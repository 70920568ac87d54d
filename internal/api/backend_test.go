package api

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeBackend is an in-process task service. Tasks are only served to
// requests carrying the expected Basic header.
type fakeBackend struct {
	mu        sync.Mutex
	tasks     []gin.H
	nextID    int
	lastBody  map[string]any
	lastAuth  string
	requestID string
	failTasks bool

	server *httptest.Server
}

const (
	backendMail     = "ada@example.com"
	backendPassword = "secret"
)

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{nextID: 100}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		b.mu.Lock()
		b.lastAuth = c.GetHeader("Authorization")
		b.requestID = c.GetHeader(RequestIDHeader)
		b.mu.Unlock()
		c.Next()
	})

	r.POST("/api/auth/register", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		if body["mail"] == "taken@example.com" {
			c.JSON(http.StatusConflict, gin.H{"message": "Mail already registered"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": 1, "mail": body["mail"]})
	})

	r.POST("/api/auth/login", func(c *gin.Context) {
		var body struct {
			Mail     string `json:"mail"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Password != backendPassword {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": 1, "firstName": "Ada", "lastName": "Lovelace", "mail": body.Mail})
	})

	authorized := r.Group("/api", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Basic "+EncodeBasicToken(backendMail, backendPassword) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	})
	authorized.GET("/tasks", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failTasks {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, b.tasks)
	})
	authorized.POST("/tasks", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task"})
			return
		}
		if title, _ := body["title"].(string); title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastBody = body
		b.nextID++
		created := gin.H{"id": b.nextID}
		for k, v := range body {
			created[k] = v
		}
		b.tasks = append(b.tasks, created)
		c.JSON(http.StatusCreated, created)
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.server.URL }

func (b *fakeBackend) seed(tasks ...gin.H) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append(b.tasks, tasks...)
}

func (b *fakeBackend) received() (map[string]any, string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody, b.lastAuth, b.requestID
}
