package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// PositionUpdate is the payload a driver pushes while a course is underway.
type PositionUpdate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`   // Speed in m/s
	Bearing   float64   `json:"bearing"` // Direction in degrees
	Timestamp time.Time `json:"timestamp"`
}

// PositionHub fans driver position updates out to the clients watching a course.
// Positions are held in memory only, keyed by course ID.
type PositionHub struct {
	watchers  map[uint]map[*websocket.Conn]bool
	latest    map[uint]map[string]interface{}
	broadcast chan positionEvent
	mu        sync.Mutex
}

type positionEvent struct {
	courseID uint
	payload  map[string]interface{}
}

func NewPositionHub() *PositionHub {
	hub := &PositionHub{
		watchers:  make(map[uint]map[*websocket.Conn]bool),
		latest:    make(map[uint]map[string]interface{}),
		broadcast: make(chan positionEvent, 100),
	}
	go hub.run()
	return hub
}

func (h *PositionHub) run() {
	for evt := range h.broadcast {
		h.mu.Lock()
		h.latest[evt.courseID] = evt.payload
		conns := h.watchers[evt.courseID]
		for conn := range conns {
			if err := conn.WriteJSON(evt.payload); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					delete(conns, conn)
				} else {
					logrus.WithError(err).WithField("course_id", evt.courseID).
						Warn("Failed to send position update to watcher.")
				}
			}
		}
		h.mu.Unlock()
	}
}

// Watch registers a watcher connection for a course and replays the last known
// position, if any, so late joiners see the driver immediately.
func (h *PositionHub) Watch(courseID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[courseID]; !ok {
		h.watchers[courseID] = make(map[*websocket.Conn]bool)
	}
	h.watchers[courseID][conn] = true
	if last, ok := h.latest[courseID]; ok {
		if err := conn.WriteJSON(last); err != nil {
			logrus.WithError(err).WithField("course_id", courseID).
				Warn("Failed to replay last position to new watcher.")
		}
	}
	logrus.WithFields(logrus.Fields{
		"course_id": courseID,
		"conn_ptr":  fmt.Sprintf("%p", conn),
	}).Info("Watcher registered with PositionHub.")
}

// Unwatch removes a watcher connection from a course.
func (h *PositionHub) Unwatch(courseID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.watchers[courseID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.watchers, courseID)
		}
	}
}

// Publish queues a position payload for broadcast. Drops the update if the
// channel is full rather than blocking the driver's read loop.
func (h *PositionHub) Publish(courseID uint, payload map[string]interface{}) {
	select {
	case h.broadcast <- positionEvent{courseID: courseID, payload: payload}:
	default:
		logrus.WithField("course_id", courseID).
			Warn("Position broadcast channel full, dropping update.")
	}
}

// Forget drops the retained position for a finished course.
func (h *PositionHub) Forget(courseID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.latest, courseID)
}

var positionHub = NewPositionHub()

// authenticateForPositionFeed validates the JWT passed as a query parameter
// (browsers cannot set headers on WebSocket upgrades) and loads the course.
func authenticateForPositionFeed(c *gin.Context) (userID uint, role string, course *models.Course, err error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		return 0, "", nil, errors.New("missing authentication token")
	}

	token, err := middleware.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return 0, "", nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", nil, errors.New("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", nil, errors.New("invalid token claims")
	}
	role, _ = claims["role"].(string)

	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, "", nil, fmt.Errorf("invalid course id: %w", err)
	}

	course, err = courseStore.ByID(uint(courseID))
	if err != nil {
		return 0, "", nil, fmt.Errorf("course not found: %w", err)
	}
	return uint(userIDFloat), role, course, nil
}

// HandleCoursePositions is the WebSocket endpoint for live course tracking.
// The assigned driver pushes positions and everyone else entitled to see the
// course receives them as GeoJSON points.
func HandleCoursePositions(c *gin.Context) {
	userID, role, course, authErr := authenticateForPositionFeed(c)
	if authErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
		return
	}

	isAssignedDriver := role == models.RoleDriver &&
		course.Driver != nil && course.Driver.UserID == userID
	isClient := course.ClientID == userID
	if !isAssignedDriver && !isClient && role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a party to this course"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	if isAssignedDriver {
		handleDriverPositionFeed(conn, course)
	} else {
		handleWatcherPositionFeed(conn, course.ID)
	}
}

// handleDriverPositionFeed reads position updates from the assigned driver and
// publishes them to the course's watchers.
func handleDriverPositionFeed(conn *websocket.Conn, course *models.Course) {
	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"driver_id": *course.DriverID,
	}).Info("Driver position feed established.")

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("course_id", course.ID).
					Error("Error reading position update from driver.")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var update PositionUpdate
		if err := json.Unmarshal(p, &update); err != nil {
			conn.WriteJSON(gin.H{"error": "invalid position payload"})
			continue
		}
		if update.Latitude < -90 || update.Latitude > 90 ||
			update.Longitude < -180 || update.Longitude > 180 {
			conn.WriteJSON(gin.H{"error": "coordinates out of range"})
			continue
		}
		if update.Timestamp.IsZero() {
			update.Timestamp = time.Now().UTC()
		}

		payload, err := positionPayload(course, update)
		if err != nil {
			logrus.WithError(err).WithField("course_id", course.ID).
				Error("Failed to encode position as GeoJSON.")
			continue
		}
		positionHub.Publish(course.ID, payload)
		conn.WriteJSON(gin.H{"status": "received", "timestamp": update.Timestamp.Format(time.RFC3339Nano)})
	}
	logrus.WithField("course_id", course.ID).Info("Driver position feed closed.")
}

// handleWatcherPositionFeed holds a watcher connection open until it closes.
func handleWatcherPositionFeed(conn *websocket.Conn, courseID uint) {
	positionHub.Watch(courseID, conn)
	defer positionHub.Unwatch(courseID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("course_id", courseID).
					Error("Error on watcher connection.")
			}
			break
		}
		// Watchers receive only. Inbound frames are ignored.
	}
}

// positionPayload encodes a driver position as a GeoJSON point with course
// context attached.
func positionPayload(course *models.Course, update PositionUpdate) (map[string]interface{}, error) {
	point := geom.NewPointFlat(geom.XY, []float64{update.Longitude, update.Latitude})
	geometry, err := geojson.Marshal(point)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"course_id":  course.ID,
		"course_ref": course.Ref,
		"status":     course.Status,
		"driver_id":  *course.DriverID,
		"position":   json.RawMessage(geometry),
		"speed":      update.Speed,
		"bearing":    update.Bearing,
		"timestamp":  update.Timestamp.Format(time.RFC3339Nano),
	}, nil
}
