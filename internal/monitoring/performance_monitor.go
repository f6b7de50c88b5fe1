package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pass names accepted by ProfiledFunction.
const (
	PassSky     = "sky"
	PassFloor   = "floor"
	PassWalls   = "walls"
	PassSprites = "sprites"
)

// PerformanceMonitor tracks frame and render pass timings
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Render pass metrics, last frame
	skyTime    atomic.Uint64
	floorTime  atomic.Uint64
	wallTime   atomic.Uint64
	spriteTime atomic.Uint64

	// Game-specific metrics
	spritesDrawn     atomic.Int32
	spritePixels     atomic.Uint64
	spritesCollected atomic.Uint64

	// Statistics
	mutex        sync.RWMutex
	avgFrameTime float64 // exponential moving average, nanoseconds
	avgWallTime  float64
	startTime    time.Time

	smoothing      float64
	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		smoothing:      0.1,
		enableDetailed: true,
	}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	frameTime := time.Since(ft.startTime)
	ft.monitor.frameTime.Store(uint64(frameTime.Nanoseconds()))
	count := ft.monitor.frameCount.Add(1)

	ft.monitor.mutex.Lock()
	ft.monitor.avgFrameTime = ft.monitor.blend(ft.monitor.avgFrameTime, float64(frameTime.Nanoseconds()), count)
	ft.monitor.mutex.Unlock()
}

// blend folds sample into avg; the first sample seeds the average.
func (pm *PerformanceMonitor) blend(avg, sample float64, count uint64) float64 {
	if count <= 1 || avg == 0 {
		return sample
	}
	return avg + pm.smoothing*(sample-avg)
}

// ProfiledFunction wraps a render pass with performance timing
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)

	// Store timing based on pass name
	switch name {
	case PassSky:
		pm.skyTime.Store(uint64(duration.Nanoseconds()))
	case PassFloor:
		pm.floorTime.Store(uint64(duration.Nanoseconds()))
	case PassWalls:
		pm.wallTime.Store(uint64(duration.Nanoseconds()))
		if pm.enableDetailed {
			pm.mutex.Lock()
			pm.avgWallTime = pm.blend(pm.avgWallTime, float64(duration.Nanoseconds()), pm.frameCount.Load()+1)
			pm.mutex.Unlock()
		}
	case PassSprites:
		pm.spriteTime.Store(uint64(duration.Nanoseconds()))
	}

	return duration
}

// UpdateSpriteMetrics records how many sprites and sprite pixels the last
// frame drew.
func (pm *PerformanceMonitor) UpdateSpriteMetrics(drawn int, pixels uint64) {
	pm.spritesDrawn.Store(int32(drawn))
	pm.spritePixels.Store(pixels)
}

// RecordCollection counts a collected sprite
func (pm *PerformanceMonitor) RecordCollection() {
	pm.spritesCollected.Add(1)
}

// FrameMetrics is a snapshot of the counters
type FrameMetrics struct {
	FrameCount       uint64
	FramesPerSecond  float64
	LastFrame        time.Duration
	Sky              time.Duration
	Floor            time.Duration
	Walls            time.Duration
	Sprites          time.Duration
	SpritesDrawn     int32
	SpritesCollected uint64
	MemoryUsageMB    uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = 1000000000.0 / float64(frameTime) // Convert nanoseconds to FPS
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return FrameMetrics{
		FrameCount:       pm.frameCount.Load(),
		FramesPerSecond:  fps,
		LastFrame:        time.Duration(frameTime),
		Sky:              time.Duration(pm.skyTime.Load()),
		Floor:            time.Duration(pm.floorTime.Load()),
		Walls:            time.Duration(pm.wallTime.Load()),
		Sprites:          time.Duration(pm.spriteTime.Load()),
		SpritesDrawn:     pm.spritesDrawn.Load(),
		SpritesCollected: pm.spritesCollected.Load(),
		MemoryUsageMB:    memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = 1000000000.0 / float64(ft)
	}

	return map[string]interface{}{
		"uptime_seconds":    time.Since(pm.startTime).Seconds(),
		"frame_count":       pm.frameCount.Load(),
		"avg_frame_time_ms": pm.avgFrameTime / 1000000, // Convert to milliseconds
		"avg_wall_time_ms":  pm.avgWallTime / 1000000,
		"sky_time_ms":       float64(pm.skyTime.Load()) / 1000000,
		"floor_time_ms":     float64(pm.floorTime.Load()) / 1000000,
		"wall_time_ms":      float64(pm.wallTime.Load()) / 1000000,
		"sprite_time_ms":    float64(pm.spriteTime.Load()) / 1000000,
		"current_fps":       fps,
		"sprites_drawn":     pm.spritesDrawn.Load(),
		"sprite_pixels":     pm.spritePixels.Load(),
		"sprites_collected": pm.spritesCollected.Load(),
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"memory_sys_mb":     memStats.Sys / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"goroutines":        runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	// Check frame rate
	frameTime := pm.frameTime.Load()
	if frameTime > 0 {
		fps := 1000000000.0 / float64(frameTime)
		if fps < 30 { // Alert if FPS drops below 30
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: 30,
				Timestamp: currentTime,
			})
		}
	}

	// Check memory usage
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > 500 { // Alert if memory usage exceeds 500MB
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: 500,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.skyTime.Store(0)
	pm.floorTime.Store(0)
	pm.wallTime.Store(0)
	pm.spriteTime.Store(0)
	pm.spritesDrawn.Store(0)
	pm.spritePixels.Store(0)
	pm.spritesCollected.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgWallTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
