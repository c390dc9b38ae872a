package models

import "time"

// KnowledgeBaseAssetType enumerates the document kinds the knowledge base
// stores per company.
type KnowledgeBaseAssetType string

const (
	AssetTypeArticle                 KnowledgeBaseAssetType = "Article"
	AssetTypeMacro                   KnowledgeBaseAssetType = "Macro"
	AssetTypeTokenPoint              KnowledgeBaseAssetType = "TokenPoint"
	AssetTypeSOP                     KnowledgeBaseAssetType = "SOP"
	AssetTypeProductDescriptionSheet KnowledgeBaseAssetType = "ProductDescriptionSheet"
	AssetTypePDFMaterial             KnowledgeBaseAssetType = "PDFMaterial"
)

// KnowledgeBaseAsset is a text document owned by a company, independent of
// the workstream tree.
type KnowledgeBaseAsset struct {
	ID           string                 `json:"id"        validate:"required"`
	CompanyID    string                 `json:"companyId" validate:"required"`
	Name         string                 `json:"name"      validate:"required"`
	Type         KnowledgeBaseAssetType `json:"type"      validate:"required"`
	Content      string                 `json:"content"`
	IsInternal   bool                   `json:"isInternal"`
	DateCreated  string                 `json:"dateCreated"`
	LastModified string                 `json:"lastModified"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func (a *KnowledgeBaseAsset) GetID() string {
	return a.ID
}
