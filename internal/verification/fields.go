package verification

// Field names one extracted identity attribute, matching the service's
// PascalCase keys.
type Field string

const (
	FieldName                         Field = "Name"
	FieldSurname                      Field = "Surname"
	FieldBirthDate                    Field = "BirthDate"
	FieldGender                       Field = "Gender"
	FieldPlaceOfBirth                 Field = "PlaceOfBirth"
	FieldNationality                  Field = "Nationality"
	FieldDocumentNumber               Field = "DocumentNumber"
	FieldIssuedDate                   Field = "IssuedDate"
	FieldExpiryDate                   Field = "ExpiryDate"
	FieldCountryOfIssue               Field = "CountryOfIssue"
	FieldIssuingAuthority             Field = "IssuingAuthority"
	FieldAddressCountry               Field = "AddressCountry"
	FieldAddressZip                   Field = "AddressZip"
	FieldAddressCity                  Field = "AddressCity"
	FieldAddressCounty                Field = "AddressCounty"
	FieldAddressStreet                Field = "AddressStreet"
	FieldPersonalIdentificationNumber Field = "PersonalIdentificationNumber"
	FieldGivenName                    Field = "GivenName"
	FieldFamilyName                   Field = "FamilyName"
	FieldMothersGivenName             Field = "MothersGivenName"
	FieldMothersFamilyName            Field = "MothersFamilyName"
	FieldSecondLastName               Field = "SecondLastName"
	FieldAddress                      Field = "Address"
	FieldPlaceOfIssue                 Field = "PlaceOfIssue"
	FieldFathersGivenName             Field = "FathersGivenName"
	FieldFathersFamilyName            Field = "FathersFamilyName"
)

func (d *extractionData) fieldEntries() []struct {
	field Field
	data  *FieldData
} {
	return []struct {
		field Field
		data  *FieldData
	}{
		{FieldName, d.Name},
		{FieldSurname, d.Surname},
		{FieldBirthDate, d.BirthDate},
		{FieldGender, d.Gender},
		{FieldPlaceOfBirth, d.PlaceOfBirth},
		{FieldNationality, d.Nationality},
		{FieldDocumentNumber, d.DocumentNumber},
		{FieldIssuedDate, d.IssuedDate},
		{FieldExpiryDate, d.ExpiryDate},
		{FieldCountryOfIssue, d.CountryOfIssue},
		{FieldIssuingAuthority, d.IssuingAuthority},
		{FieldAddressCountry, d.AddressCountry},
		{FieldAddressZip, d.AddressZip},
		{FieldAddressCity, d.AddressCity},
		{FieldAddressCounty, d.AddressCounty},
		{FieldAddressStreet, d.AddressStreet},
		{FieldPersonalIdentificationNumber, d.PersonalIdentificationNumber},
		{FieldGivenName, d.GivenName},
		{FieldFamilyName, d.FamilyName},
		{FieldMothersGivenName, d.MothersGivenName},
		{FieldMothersFamilyName, d.MothersFamilyName},
		{FieldSecondLastName, d.SecondLastName},
		{FieldAddress, d.Address},
		{FieldPlaceOfIssue, d.PlaceOfIssue},
		{FieldFathersGivenName, d.FathersGivenName},
		{FieldFathersFamilyName, d.FathersFamilyName},
	}
}

// mapFields keeps a field only when the service marked it as read and supplied
// a recommended value. An unread field with a populated RecommendedValue is
// still dropped.
func mapFields(data *extractionData) map[Field]string {
	fields := make(map[Field]string)
	if data == nil {
		return fields
	}
	for _, entry := range data.fieldEntries() {
		if entry.data == nil {
			continue
		}
		read := entry.data.Read != nil && *entry.data.Read
		if read && entry.data.RecommendedValue != nil {
			fields[entry.field] = *entry.data.RecommendedValue
		}
	}
	return fields
}
