package domain

// Field identifies a column of a source decision row, or a derived field
// added during collection (derived fields start with an underscore).
type Field string

// Source columns read or written by the collector.
const (
	FieldID               Field = "JDEC_ID"
	FieldMirrorID         Field = "_id"
	FieldHTMLSource       Field = "JDEC_HTML_SOURCE"
	FieldDate             Field = "JDEC_DATE"
	FieldCreationDate     Field = "JDEC_DATE_CREATION"
	FieldUpdateDate       Field = "JDEC_DATE_MAJ"
	FieldNAC              Field = "JDEC_CODNAC"
	FieldNACPart          Field = "JDEC_CODNACPART"
	FieldPublicFlag       Field = "JDEC_IND_DEC_PUB"
	FieldJurisdictionCode Field = "JDEC_CODE_JURIDICTION"
	FieldPseudoHTML       Field = "HTMLA"
	FieldSentToSubscriber Field = "DT_ENVOI_ABONNES"
	FieldIndexed          Field = "_indexed"
	FieldBlockID          Field = "ID_BLOC"
)

// Fields compared by the diff classifier.
const (
	FieldXML                      Field = "XML"
	FieldDecisionType             Field = "TYPE_ARRET"
	FieldJurisdiction             Field = "JURIDICTION"
	FieldChamberID                Field = "ID_CHAMBRE"
	FieldDecisionNumber           Field = "NUM_DECISION"
	FieldDecisionDate             Field = "DT_DECISION"
	FieldSolutionID               Field = "ID_SOLUTION"
	FieldCitedText                Field = "TEXTE_VISE"
	FieldReconciliation           Field = "RAPROCHEMENT"
	FieldSource                   Field = "SOURCE"
	FieldDoctrine                 Field = "DOCTRINE"
	FieldStatus                   Field = "IND_ANO"
	FieldStatusAuthor             Field = "AUT_ANO"
	FieldStatusDate               Field = "DT_ANO"
	FieldModified                 Field = "DT_MODIF"
	FieldStatusModified           Field = "DT_MODIF_ANO"
	FieldSentToDILA               Field = "DT_ENVOI_DILA"
	FieldTitles                   Field = "_titrage"
	FieldAnalysis                 Field = "_analyse"
	FieldParties                  Field = "_partie"
	FieldAppealedDecision         Field = "_decatt"
	FieldPortalis                 Field = "_portalis"
	FieldOccultationBlock         Field = "_bloc_occultation"
	FieldIndLegalEntity           Field = "IND_PM"
	FieldIndAddress               Field = "IND_ADRESSE"
	FieldIndBirthDate             Field = "IND_DT_NAISSANCE"
	FieldIndDeathDate             Field = "IND_DT_DECE"
	FieldIndMarriageDate          Field = "IND_DT_MARIAGE"
	FieldIndRegistration          Field = "IND_IMMATRICULATION"
	FieldIndCadastre              Field = "IND_CADASTRE"
	FieldIndChain                 Field = "IND_CHAINE"
	FieldIndElectronicContact     Field = "IND_COORDONNEE_ELECTRONIQUE"
	FieldIndProfessionalFirstName Field = "IND_PRENOM_PROFESSIONEL"
	FieldIndProfessionalLastName  Field = "IND_NOM_PROFESSIONEL"
	FieldIndBulletin              Field = "IND_BULLETIN"
	FieldIndReport                Field = "IND_RAPPORT"
	FieldIndLetter                Field = "IND_LETTRE"
	FieldIndPressRelease          Field = "IND_COMMUNIQUE"
	FieldFormationID              Field = "ID_FORMATION"
	FieldAdditionalOccultation    Field = "OCCULTATION_SUPPLEMENTAIRE"
	FieldCivilCaseNature          Field = "_natureAffaireCivil"
	FieldCriminalCaseNature       Field = "_natureAffairePenal"
	FieldCivilMatterCode          Field = "_codeMatiereCivil"
	FieldNAOCode                  Field = "_nao_code"
)

// SensitivePlaceholder replaces old and new values of sensitive fields in a changelog.
const SensitivePlaceholder = "[SENSITIVE]"

// FieldSet is an unordered set of fields.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f belongs to the set.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// UpdatableFields lists, in changelog order, the fields whose change makes a
// re-collected decision worth updating.
var UpdatableFields = []Field{
	FieldXML,
	FieldDecisionType,
	FieldJurisdiction,
	FieldChamberID,
	FieldDecisionNumber,
	FieldDecisionDate,
	FieldSolutionID,
	FieldCitedText,
	FieldReconciliation,
	FieldSource,
	FieldDoctrine,
	FieldStatus,
	FieldStatusAuthor,
	FieldStatusDate,
	FieldModified,
	FieldStatusModified,
	FieldSentToDILA,
	FieldTitles,
	FieldAnalysis,
	FieldParties,
	FieldAppealedDecision,
	FieldPortalis,
	FieldOccultationBlock,
	FieldIndLegalEntity,
	FieldIndAddress,
	FieldIndBirthDate,
	FieldIndDeathDate,
	FieldIndMarriageDate,
	FieldIndRegistration,
	FieldIndCadastre,
	FieldIndChain,
	FieldIndElectronicContact,
	FieldIndProfessionalFirstName,
	FieldIndProfessionalLastName,
	FieldIndBulletin,
	FieldIndReport,
	FieldIndLetter,
	FieldIndPressRelease,
	FieldFormationID,
	FieldAdditionalOccultation,
	FieldCivilCaseNature,
	FieldCriminalCaseNature,
	FieldCivilMatterCode,
	FieldNAOCode,
}

// SensitiveFields never have their values written to a changelog.
var SensitiveFields = NewFieldSet(
	FieldXML,
	FieldParties,
	FieldAdditionalOccultation,
)

// ShouldNotUpdateFields are expected to be immutable once collected. A change
// means the original text may have been altered at the source.
var ShouldNotUpdateFields = NewFieldSet(
	FieldXML,
)

// ReprocessFields invalidate prior pseudonymisation when they change.
var ReprocessFields = NewFieldSet(
	FieldIndLegalEntity,
	FieldIndAddress,
	FieldIndBirthDate,
	FieldIndDeathDate,
	FieldIndMarriageDate,
	FieldIndRegistration,
	FieldIndCadastre,
	FieldIndChain,
	FieldIndElectronicContact,
	FieldIndProfessionalFirstName,
	FieldIndProfessionalLastName,
	FieldAdditionalOccultation,
	FieldOccultationBlock,
	FieldCivilCaseNature,
	FieldCriminalCaseNature,
	FieldCivilMatterCode,
	FieldNAOCode,
)
