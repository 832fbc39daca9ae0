package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-gl/engine/math"
)

/**
 * @brief Represents a perspective camera. The view matrix is
 * rebuilt lazily after the position or rotation changes.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	position mgl32.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll)
	 * in radians.
	 */
	eulerRotation mgl32.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	isDirty    bool
	viewMatrix mgl32.Mat4

	// Vertical field of view in radians.
	fovY   float32
	aspect float32
	near   float32
	far    float32
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.eulerRotation = mgl32.Vec3{}
	c.position = mgl32.Vec3{}
	c.isDirty = false
	c.viewMatrix = mgl32.Ident4()
	c.fovY = mgl32.DegToRad(45)
	c.aspect = 16.0 / 9.0
	c.near = 0.1
	c.far = 100
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.position
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *Camera) GetEulerRotation() mgl32.Vec3 {
	return c.eulerRotation
}

func (c *Camera) SetEulerRotation(rotation mgl32.Vec3) {
	c.eulerRotation = rotation
	c.isDirty = true
}

func (c *Camera) rotation() mgl32.Quat {
	return mgl32.AnglesToQuat(c.eulerRotation.X(), c.eulerRotation.Y(), c.eulerRotation.Z(), mgl32.XYZ)
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.isDirty {
		world := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z()).Mul4(c.rotation().Mat4())
		c.viewMatrix = world.Inv()
		c.isDirty = false
	}
	return c.viewMatrix
}

// SetAspect updates the projection for a framebuffer of the given size.
// A zero height is ignored.
func (c *Camera) SetAspect(width, height int) {
	if height == 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

func (c *Camera) GetProjection() mgl32.Mat4 {
	return mgl32.Perspective(c.fovY, c.aspect, c.near, c.far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.GetProjection().Mul4(c.GetView())
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.rotation().Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.rotation().Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *Camera) MoveForward(amount float32) {
	c.position = c.position.Add(c.Forward().Mul(amount))
	c.isDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	c.position = c.position.Add(c.Right().Mul(amount))
	c.isDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	c.position = c.position.Add(mgl32.Vec3{0, amount, 0})
	c.isDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.eulerRotation[1] += amount
	c.isDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.eulerRotation[0] += amount

	// Clamp to avoid Gimbal lock.
	limit := mgl32.DegToRad(89)
	c.eulerRotation[0] = math.Clamp(c.eulerRotation[0], -limit, limit)

	c.isDirty = true
}
