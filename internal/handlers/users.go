package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/aevon-lab/routekit/internal/route"
	"github.com/gin-gonic/gin"
)

// User is the sample record served by the users routes.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

var sampleUsers = []User{
	{ID: 1, Name: "John Doe", Email: "john@example.com", Role: "admin", CreatedAt: "2023-01-15T12:00:00Z"},
	{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: "user", CreatedAt: "2023-02-20T14:30:00Z"},
	{ID: 3, Name: "Alice Brown", Email: "alice@example.com", Role: "user", CreatedAt: "2023-03-10T09:15:00Z"},
}

// UsersV1 lists the basic user fields.
type UsersV1 struct{}

func NewUsersV1(route.Host) (route.RouteDefinition, error) {
	return &UsersV1{}, nil
}

func (u *UsersV1) Config() route.Config {
	return route.Config{
		Method:      route.Methods{"GET"},
		URL:         "/users",
		Description: "Get a list of users",
		Summary:     "Returns a list of system users",
		Tags:        []string{"users", "api"},
		Schema: map[string]interface{}{
			"response": map[string]interface{}{
				"200": map[string]interface{}{"$ref": "v1-users#"},
			},
		},
	}
}

func (u *UsersV1) BeforeHandle(c *gin.Context) {
	slog.Info("API v1 - Processing users request", "remote", c.ClientIP())
}

func (u *UsersV1) Handle(c *gin.Context) {
	users := make([]User, 0, 2)
	for _, user := range sampleUsers[:2] {
		users = append(users, User{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	c.JSON(http.StatusOK, gin.H{"result": gin.H{"users": users}})
}

func (u *UsersV1) OnSend(c *gin.Context, payload []byte) ([]byte, error) {
	return withMeta(payload, map[string]interface{}{"version": "v1"})
}

// UsersV2 adds roles, sorting and pagination.
type UsersV2 struct{}

func NewUsersV2(route.Host) (route.RouteDefinition, error) {
	return &UsersV2{}, nil
}

// UsersQuery is the v2 query string.
type UsersQuery struct {
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Sort   string `form:"sort,default=id" binding:"oneof=name id email"`
}

// Pagination describes the page a v2 response covers.
type Pagination struct {
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

func (u *UsersV2) Config() route.Config {
	return route.Config{
		Method:      route.Methods{"GET"},
		URL:         "/users",
		Description: "Get a list of users with extended data",
		Summary:     "Returns a list of system users with enhanced information",
		Tags:        []string{"users", "api"},
		Schema: map[string]interface{}{
			"querystring": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit":  map[string]interface{}{"type": "integer", "default": 10},
					"offset": map[string]interface{}{"type": "integer", "default": 0},
					"sort":   map[string]interface{}{"type": "string", "enum": []interface{}{"name", "id", "email"}, "default": "id"},
				},
			},
			"response": map[string]interface{}{
				"200": map[string]interface{}{"$ref": "v2-users#"},
			},
		},
	}
}

func (u *UsersV2) BeforeHandle(c *gin.Context) {
	slog.Info("API v2 - Processing users request", "remote", c.ClientIP(), "params", c.Request.URL.RawQuery)
}

func (u *UsersV2) Handle(c *gin.Context) {
	var q UsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.NewResponse("Invalid query: "+err.Error()))
		return
	}

	users := make([]User, len(sampleUsers))
	copy(users, sampleUsers)
	sort.SliceStable(users, func(i, j int) bool {
		switch q.Sort {
		case "name":
			return strings.Compare(users[i].Name, users[j].Name) < 0
		case "email":
			return strings.Compare(users[i].Email, users[j].Email) < 0
		default:
			return users[i].ID < users[j].ID
		}
	})

	total := len(users)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{
			"users": users[start:end],
			"total": total,
			"pagination": Pagination{
				Limit:       q.Limit,
				Offset:      q.Offset,
				Total:       total,
				TotalPages:  (total + q.Limit - 1) / q.Limit,
				CurrentPage: q.Offset/q.Limit + 1,
			},
		},
	})
}

func (u *UsersV2) OnSend(c *gin.Context, payload []byte) ([]byte, error) {
	params := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		params[key] = values[0]
	}
	return withMeta(payload, map[string]interface{}{"version": "v2", "params": params})
}
