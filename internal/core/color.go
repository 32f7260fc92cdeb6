package core

// Color is a semantic foreground color for a screen cell.
// The platform layer decides how each one looks in a terminal.
type Color uint8

const (
	ColorDefault Color = iota
	ColorDim
	ColorAccent
	ColorSelected
	ColorShooter
	ColorSplash
	ColorSlow
	ColorWall
	ColorEnemy
	ColorFastEnemy
	ColorTankEnemy
	ColorBoss
	ColorBase
	ColorCoins
	ColorDanger
)

// RoleColor maps a unit role tag to its board color.
func RoleColor(role string) Color {
	switch role {
	case "SHOOTER":
		return ColorShooter
	case "SPLASH":
		return ColorSplash
	case "SLOW":
		return ColorSlow
	case "WALL", "GUARDIAN":
		return ColorWall
	default:
		return ColorDefault
	}
}

// EnemyColor maps an enemy type to its lane color.
func EnemyColor(enemyType string) Color {
	switch enemyType {
	case "fast":
		return ColorFastEnemy
	case "tank":
		return ColorTankEnemy
	case "boss":
		return ColorBoss
	default:
		return ColorEnemy
	}
}
