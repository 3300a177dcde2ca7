package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"campusattend/internal/dataset"
)

// Stats is the four-metric dashboard summary with week-over-week trends.
type Stats struct {
	TotalStudents     int `json:"totalStudents"`
	TodayAttendance   int `json:"todayAttendance"`
	TotalFaceDatasets int `json:"totalFaceDatasets"`
	RoomAccess        int `json:"roomAccess"`
	Trends            struct {
		Students   float64 `json:"students"`
		Attendance float64 `json:"attendance"`
		Datasets   float64 `json:"datasets"`
		Access     float64 `json:"access"`
	} `json:"trends"`
}

// Activity is one recent-attendance feed entry.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
}

// Alert is a dashboard warning row.
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Component is one row of the system status panel.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ChartPoint is one day of the attendance chart.
type ChartPoint struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

// AttendanceFeedItem is a raw joined row feeding Activities.
type AttendanceFeedItem struct {
	ID          string
	StudentName string
	StudentNIM  string
	CourseName  string
	Status      string
	CheckInTime time.Time
}

// DayCounts aggregates one day's attendance statuses.
type DayCounts struct {
	Total   int
	Present int
	Late    int
}

// Repository supplies the database-side counts.
type Repository interface {
	CountStudents(ctx context.Context) (int, error)
	CountStudentsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
	CountAttendancesBetween(ctx context.Context, from, to time.Time) (int, error)
	CountSessionsBetween(ctx context.Context, from, to time.Time) (int, error)
	CountAbsentSince(ctx context.Context, since time.Time) (int, error)
	RecentAttendances(ctx context.Context, limit int) ([]AttendanceFeedItem, error)
	AttendanceDayCounts(ctx context.Context, from, to time.Time) (DayCounts, error)
}

// Pinger is the health surface of an external service client.
type Pinger interface {
	Health(ctx context.Context) error
}

// Checker is the health surface of an internal backing store.
type Checker interface {
	Healthy(ctx context.Context) bool
}

// Service computes dashboard responses.
type Service struct {
	repo     Repository
	datasets dataset.Store
	scanTTL  time.Duration
	db       Checker
	cache    Checker
	face     Pinger
	door     Pinger
}

// NewService wires the dashboard's collaborators. scanTTL bounds dataset
// directory walks per request.
func NewService(repo Repository, datasets dataset.Store, scanTTL time.Duration, db, cache Checker, face, door Pinger) *Service {
	if scanTTL <= 0 {
		scanTTL = 5 * time.Second
	}
	return &Service{repo: repo, datasets: datasets, scanTTL: scanTTL, db: db, cache: cache, face: face, door: door}
}

// Trend is the week-over-week percentage change, rounded to 2 decimals.
// A zero baseline yields 100 when there is any current activity, else 0.
func Trend(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return math.Round(float64(current-previous)/float64(previous)*100*100) / 100
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

// Statistics computes the four-metric summary and its trends.
func (s *Service) Statistics(ctx context.Context) (Stats, error) {
	now := time.Now()
	todayStart, todayEnd := dayBounds(now)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	lastWeekStart, lastWeekEnd := dayBounds(lastWeek)

	var stats Stats
	var err error

	if stats.TotalStudents, err = s.repo.CountStudents(ctx); err != nil {
		return Stats{}, err
	}
	studentsLastWeek, err := s.repo.CountStudentsCreatedBefore(ctx, lastWeek)
	if err != nil {
		return Stats{}, err
	}
	if stats.TodayAttendance, err = s.repo.CountAttendancesBetween(ctx, todayStart, todayEnd); err != nil {
		return Stats{}, err
	}
	attendanceLastWeek, err := s.repo.CountAttendancesBetween(ctx, lastWeekStart, lastWeekEnd)
	if err != nil {
		return Stats{}, err
	}
	if stats.RoomAccess, err = s.repo.CountSessionsBetween(ctx, todayStart, todayEnd); err != nil {
		return Stats{}, err
	}
	accessLastWeek, err := s.repo.CountSessionsBetween(ctx, lastWeekStart, lastWeekEnd)
	if err != nil {
		return Stats{}, err
	}

	totalImages, oldImages, err := s.scanDatasets(ctx, lastWeek)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalFaceDatasets = totalImages

	stats.Trends.Students = Trend(stats.TotalStudents, studentsLastWeek)
	stats.Trends.Attendance = Trend(stats.TodayAttendance, attendanceLastWeek)
	stats.Trends.Datasets = Trend(totalImages, oldImages)
	stats.Trends.Access = Trend(stats.RoomAccess, accessLastWeek)
	return stats, nil
}

// scanDatasets walks the dataset store under a bounded context; directory
// walks are O(images) and must not hold the request open indefinitely.
func (s *Service) scanDatasets(ctx context.Context, cutoff time.Time) (total, before int, err error) {
	scanCtx, cancel := context.WithTimeout(ctx, s.scanTTL)
	defer cancel()

	people, err := s.datasets.People(scanCtx)
	if err != nil {
		return 0, 0, err
	}
	for _, person := range people {
		n, err := s.datasets.CountImages(scanCtx, person)
		if err != nil {
			return 0, 0, err
		}
		total += n
		old, err := s.datasets.CountImagesBefore(scanCtx, person, cutoff)
		if err != nil {
			return 0, 0, err
		}
		before += old
	}
	return total, before, nil
}

// Activities returns the latest attendance feed.
func (s *Service) Activities(ctx context.Context) ([]Activity, error) {
	items, err := s.repo.RecentAttendances(ctx, 10)
	if err != nil {
		return nil, err
	}
	activities := make([]Activity, 0, len(items))
	for _, it := range items {
		name := it.StudentName
		if name == "" {
			name = "Unknown"
		}
		course := it.CourseName
		if course == "" {
			course = "Unknown Course"
		}
		activities = append(activities, Activity{
			ID:          it.ID,
			Type:        "attendance",
			Title:       fmt.Sprintf("Attendance %s (%s)", name, it.StudentNIM),
			Description: fmt.Sprintf("%s - %s", course, it.Status),
			Timestamp:   it.CheckInTime,
			Status:      it.Status,
		})
	}
	return activities, nil
}

// Alerts derives dashboard warnings from current data.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	alerts := []Alert{}
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)

	totalStudents, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, err
	}
	scanCtx, cancel := context.WithTimeout(ctx, s.scanTTL)
	people, err := s.datasets.People(scanCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	if missing := totalStudents - len(people); missing > 0 {
		alerts = append(alerts, Alert{
			Type:    "warning",
			Message: fmt.Sprintf("%d students have no registered face dataset", missing),
		})
	}

	absences, err := s.repo.CountAbsentSince(ctx, lastWeek)
	if err != nil {
		return nil, err
	}
	if absences > 10 {
		alerts = append(alerts, Alert{
			Type:    "error",
			Message: fmt.Sprintf("%d absences recorded in the last 7 days", absences),
		})
	}

	alerts = append(alerts, Alert{
		Type:    "info",
		Message: "System maintenance is scheduled every Sunday at 02:00",
	})
	return alerts, nil
}

// SystemStatus reports component health via the real clients rather than
// hardcoded values.
func (s *Service) SystemStatus(ctx context.Context) []Component {
	components := make([]Component, 0, 4)

	dbStatus := "online"
	if !s.db.Healthy(ctx) {
		dbStatus = "offline"
	}
	components = append(components, Component{Name: "Database Server", Status: dbStatus})

	cacheStatus := "online"
	if !s.cache.Healthy(ctx) {
		cacheStatus = "offline"
	}
	components = append(components, Component{Name: "Session Store", Status: cacheStatus})

	faceStatus, faceDetail := "online", ""
	if err := s.face.Health(ctx); err != nil {
		faceStatus, faceDetail = "offline", err.Error()
	}
	components = append(components, Component{Name: "Face Recognition Service", Status: faceStatus, Detail: faceDetail})

	doorStatus, doorDetail := "online", ""
	if err := s.door.Health(ctx); err != nil {
		doorStatus, doorDetail = "offline", err.Error()
	}
	components = append(components, Component{Name: "Door Access System", Status: doorStatus, Detail: doorDetail})

	return components
}

// Chart returns per-day attendance counts for the last 7 days, oldest first.
func (s *Service) Chart(ctx context.Context) ([]ChartPoint, error) {
	now := time.Now()
	points := make([]ChartPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.Add(-time.Duration(i) * 24 * time.Hour)
		from, to := dayBounds(day)
		counts, err := s.repo.AttendanceDayCounts(ctx, from, to)
		if err != nil {
			return nil, err
		}
		points = append(points, ChartPoint{
			Date:    from.Format("Mon 2 Jan"),
			Total:   counts.Total,
			Present: counts.Present,
			Late:    counts.Late,
			Absent:  counts.Total - counts.Present - counts.Late,
		})
	}
	return points, nil
}
