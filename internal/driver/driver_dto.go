package driver

type CreateDriverRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	License string `json:"license" binding:"max=50"`
	Status  string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateDriverRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	License string `json:"license" binding:"max=50"`
	Status  string `json:"status" binding:"required,oneof=active inactive"`
}

type DriverResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	License   string `json:"license"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateDriverResponse carries the login provisioned for the new driver.
type CreateDriverResponse struct {
	DriverResponse
	Username string `json:"username"`
}
