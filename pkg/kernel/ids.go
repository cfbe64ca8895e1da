package kernel

// Identificadores tipados del dominio. Son strings (UUIDs generados por la
// aplicación o seriales del esquema) envueltos para que el compilador impida
// cruzarlos entre entidades.

type UserID string

func NewUserID(s string) UserID  { return UserID(s) }
func (id UserID) String() string { return string(id) }
func (id UserID) IsEmpty() bool  { return id == "" }

type CampaignID string

func NewCampaignID(s string) CampaignID { return CampaignID(s) }
func (id CampaignID) String() string    { return string(id) }
func (id CampaignID) IsEmpty() bool     { return id == "" }

type PositionID string

func NewPositionID(s string) PositionID { return PositionID(s) }
func (id PositionID) String() string    { return string(id) }

type ValidatorUnitID string

func NewValidatorUnitID(s string) ValidatorUnitID { return ValidatorUnitID(s) }
func (id ValidatorUnitID) String() string         { return string(id) }

type ProposalID string

func NewProposalID(s string) ProposalID { return ProposalID(s) }
func (id ProposalID) String() string    { return string(id) }
func (id ProposalID) IsEmpty() bool     { return id == "" }

type ValidationID string

func NewValidationID(s string) ValidationID { return ValidationID(s) }
func (id ValidationID) String() string      { return string(id) }

type FileID string

func NewFileID(s string) FileID  { return FileID(s) }
func (id FileID) String() string { return string(id) }

// CLUES es la clave única de establecimiento de salud
type CLUES string

func (c CLUES) String() string { return string(c) }
