package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMINISTRATOR UserRole = "Administrator" // 管理员，可查看全部客户
	UserRoleSALES_MANAGER UserRole = "Sales Manager" // 销售经理
	UserRoleSALES_USER    UserRole = "Sales User"    // 销售
)

// User 用户类型
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"` // 不返回密码
	FullName  string             `bson:"fullName" json:"fullName"`
	Role      UserRole           `bson:"role" json:"role"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BranchDetail 客户所属分支
type BranchDetail struct {
	Branch string `bson:"branch" json:"branch"`
}

// SalesTeamMember 客户的销售团队成员
type SalesTeamMember struct {
	SalesPerson string `bson:"salesPerson" json:"sales_person"`
}

// CustomerRecord 客户主数据，_id 即客户编码
type CustomerRecord struct {
	Code            string            `bson:"_id" json:"name"`
	CustomerName    string            `bson:"customerName" json:"customer_name"`
	DefaultCurrency string            `bson:"defaultCurrency" json:"default_currency"`
	BranchDetails   []BranchDetail    `bson:"branchDetails" json:"custom_branch_details"`
	SalesTeam       []SalesTeamMember `bson:"salesTeam" json:"sales_team"`
}

// FirstBranch 返回第一个分支，没有则为空
func (c CustomerRecord) FirstBranch() string {
	if len(c.BranchDetails) == 0 {
		return ""
	}
	return c.BranchDetails[0].Branch
}

type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)
