package models

import "time"

// SupplierStatus 供应商排放数据收集状态
type SupplierStatus string

const (
	SupplierStatusNone                   SupplierStatus = "none"
	SupplierStatusPending                SupplierStatus = "pending"
	SupplierStatusContacted              SupplierStatus = "contacted"
	SupplierStatusConsultationRequested  SupplierStatus = "consultation_requested"
	SupplierStatusEmissionDataReceived   SupplierStatus = "emission_data_received"
	SupplierStatusSupportingDocsReceived SupplierStatus = "supporting_docs_received"
	SupplierStatusContactFailed          SupplierStatus = "contact_failed"
)

// SupplierStatuses 按流程顺序的全部状态
var SupplierStatuses = []SupplierStatus{
	SupplierStatusNone,
	SupplierStatusPending,
	SupplierStatusContacted,
	SupplierStatusConsultationRequested,
	SupplierStatusEmissionDataReceived,
	SupplierStatusSupportingDocsReceived,
	SupplierStatusContactFailed,
}

// Valid 是否为已知状态
func (s SupplierStatus) Valid() bool {
	for _, known := range SupplierStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// HasEmissionData 是否已收到排放数据
func (s SupplierStatus) HasEmissionData() bool {
	return s == SupplierStatusEmissionDataReceived || s == SupplierStatusSupportingDocsReceived
}

// Supplier 供应商(设施运营方)
type Supplier struct {
	ID            string         `bson:"_id,omitempty" json:"_id,omitempty"`
	Name          string         `bson:"name" json:"name"`
	Country       string         `bson:"country" json:"country"`
	ContactPerson string         `bson:"contactPerson" json:"contactPerson"`
	ContactEmail  string         `bson:"contactEmail" json:"contactEmail"`
	Status        SupplierStatus `bson:"status" json:"status"`
	Notes         string         `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// SupplierCreateRequest 创建供应商请求
type SupplierCreateRequest struct {
	Name          string         `json:"name" binding:"required,min=2"`
	Country       string         `json:"country" binding:"required"`
	ContactPerson string         `json:"contactPerson"`
	ContactEmail  string         `json:"contactEmail" binding:"omitempty,email"`
	Status        SupplierStatus `json:"status"`
	Notes         string         `json:"notes"`
}

// SupplierUpdate 供应商部分更新，nil字段不修改
type SupplierUpdate struct {
	Name          *string         `json:"name" binding:"omitempty,min=2"`
	Country       *string         `json:"country"`
	ContactPerson *string         `json:"contactPerson"`
	ContactEmail  *string         `json:"contactEmail" binding:"omitempty,email"`
	Status        *SupplierStatus `json:"status"`
	Notes         *string         `json:"notes"`
}

// SupplierStatusRequest 状态变更请求
type SupplierStatusRequest struct {
	Status SupplierStatus `json:"status" binding:"required"`
}
