package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all game configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	World    WorldConfig    `yaml:"world"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Render   RenderConfig   `yaml:"render"`
	Textures TexturesConfig `yaml:"textures"`
	Sprites  SpritesConfig  `yaml:"sprites"`
	Minimap  MinimapConfig  `yaml:"minimap"`
	Audio    AudioConfig    `yaml:"audio"`
	Scores   ScoresConfig   `yaml:"scores"`
	Server   ServerConfig   `yaml:"server"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type WorldConfig struct {
	BlockSize    float64 `yaml:"block_size"`
	MapFile      string  `yaml:"map_file"`
	TilesFile    string  `yaml:"tiles_file"`
	SpriteMarker string  `yaml:"sprite_marker"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view"`
	StartX      float64 `yaml:"start_x"`
	StartY      float64 `yaml:"start_y"`
	StartAngle  float64 `yaml:"start_angle"`
}

type MovementConfig struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	RotationSpeed    float64 `yaml:"rotation_speed"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	PlayerSize       float64 `yaml:"player_size"`
}

// RenderConfig carries the projection constants of the raycasting pipeline.
type RenderConfig struct {
	RayStep            float64 `yaml:"ray_step"`
	MaxRayDistance     float64 `yaml:"max_ray_distance"`
	ProjectionDistance float64 `yaml:"projection_distance"`
	WallHeightFactor   float64 `yaml:"wall_height_factor"`
	SideShade          float64 `yaml:"side_shade"`

	EyeHeight          float64 `yaml:"eye_height"`
	FloorTextureScale  float64 `yaml:"floor_texture_scale"`
	FloorFadeDistance  float64 `yaml:"floor_fade_distance"`
	FloorMinBrightness float64 `yaml:"floor_min_brightness"`

	SpriteNear         float64 `yaml:"sprite_near"`
	SpriteFar          float64 `yaml:"sprite_far"`
	SpriteProjection   float64 `yaml:"sprite_projection"`
	SpriteHeightFactor float64 `yaml:"sprite_height_factor"`
	SpriteAspect       float64 `yaml:"sprite_aspect"`
	AlphaThreshold     uint8   `yaml:"alpha_threshold"`

	SkyColor    [3]int `yaml:"sky_color"`
	GroundColor [3]int `yaml:"ground_color"`
	Textured    bool   `yaml:"textured"`

	// Workers sizes the optional wall-casting pool: negative (the default)
	// casts on the calling goroutine, 0 is one worker per CPU.
	Workers int `yaml:"workers"`
}

type TexturesConfig struct {
	Walls       map[string]string `yaml:"walls"` // tile key -> image path
	DefaultWall string            `yaml:"default_wall"`
	Floor       string            `yaml:"floor"`
	Sky         string            `yaml:"sky"`
}

type SpritesConfig struct {
	FrameDuration   float64  `yaml:"frame_duration"`
	Scale           float64  `yaml:"scale"`
	CollectDistance float64  `yaml:"collect_distance"`
	Frames          []string `yaml:"frames"` // optional image paths, procedural frames otherwise
}

type MinimapConfig struct {
	Size    int  `yaml:"size"`
	Margin  int  `yaml:"margin"`
	Enabled bool `yaml:"enabled"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type ScoresConfig struct {
	Backend  string `yaml:"backend"` // "json" or "postgres"
	File     string `yaml:"file"`
	DSN      string `yaml:"dsn"`
	MaxKept  int    `yaml:"max_kept"`
	Player   string `yaml:"player"`
	Disabled bool   `yaml:"disabled"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	FPS            int      `yaml:"fps"`
	FrameWidth     int      `yaml:"frame_width"`
	FrameHeight    int      `yaml:"frame_height"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var GlobalConfig *Config

// Default returns the configuration the game was tuned with. Fields missing
// from config.yaml keep these values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1000,
			ScreenHeight: 650,
			WindowTitle:  "Touchdown",
		},
		World: WorldConfig{
			BlockSize:    100,
			MapFile:      "assets/stadium.map",
			TilesFile:    "assets/tiles.yaml",
			SpriteMarker: ".",
		},
		Camera: CameraConfig{
			FieldOfView: math.Pi / 3,
			StartX:      150,
			StartY:      150,
			StartAngle:  math.Pi / 3,
		},
		Movement: MovementConfig{
			MoveSpeed:        10,
			RotationSpeed:    math.Pi / 10,
			MouseSensitivity: 0.005,
			PlayerSize:       20,
		},
		Render: RenderConfig{
			RayStep:            0.5,
			MaxRayDistance:     2000,
			ProjectionDistance: 250,
			WallHeightFactor:   0.65,
			SideShade:          0.7,
			EyeHeight:          32,
			FloorTextureScale:  64,
			FloorFadeDistance:  800,
			FloorMinBrightness: 0.7,
			SpriteNear:         20,
			SpriteFar:          800,
			SpriteProjection:   200,
			SpriteHeightFactor: 0.48,
			SpriteAspect:       0.8,
			AlphaThreshold:     128,
			SkyColor:           [3]int{135, 206, 235},
			GroundColor:        [3]int{0, 117, 44},
			Textured:           true,
			Workers:            -1,
		},
		Textures: TexturesConfig{
			DefaultWall: "assets/stadium.png",
			Floor:       "assets/grass.png",
		},
		Sprites: SpritesConfig{
			FrameDuration:   1.0,
			Scale:           0.5,
			CollectDistance: 30,
		},
		Minimap: MinimapConfig{
			Size:    200,
			Margin:  10,
			Enabled: true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Scores: ScoresConfig{
			Backend: "json",
			File:    "highscores.json",
			MaxKept: 10,
			Player:  "player",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			FPS:         15,
			FrameWidth:  320,
			FrameHeight: 200,
		},
	}
}

// LoadConfig loads the configuration from config.yaml on top of Default and
// applies environment overrides.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	// Set global config for easy access
	GlobalConfig = config

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetBlockSize() float64 {
	return c.World.BlockSize
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView
}

// GetSpriteMarker returns the map symbol that spawns a sprite.
func (c *Config) GetSpriteMarker() rune {
	for _, r := range c.World.SpriteMarker {
		return r
	}
	return '.'
}

// TileConfig is the layout of assets/tiles.yaml.
type TileConfig struct {
	TileData map[string]TileData `yaml:"tiles"`
}

// TileData describes one wall kind.
type TileData struct {
	Name      string `yaml:"name"`
	Letter    string `yaml:"letter"`
	WallColor [3]int `yaml:"wall_color"`
	Texture   string `yaml:"texture"`
}
