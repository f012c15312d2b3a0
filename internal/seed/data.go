package seed

import "github.com/rpggio/medchron/internal/domain/project"

var users = []project.User{
	{ID: "1", Name: "Olivia Carter"},
	{ID: "2", Name: "Marcus Bennett"},
	{ID: "3", Name: "Harper Reed"},
	{ID: "4", Name: "System Admin"},
}

var projectNames = []string{
	"Baker v. Ridgeview Apartments",
	"Ramos v. Northgate Superstore",
	"Parker v. Sunrise Daycare Center",
	"Flores v. Capital Mall Management",
	"Thompson v. Lakeside School District",
	"Mitchell v. Clearview Golf Club",
	"Rivera v. Cascade Transit Authority",
	"Grant v. Horizon Delivery Services",
	"Brooks v. Valley Hospital Corporation",
	"Dixon v. Elm Street Pharmacy",
	"Anderson v. Metro Tech Solutions",
	"Williams v. Central Bank Trust",
	"Johnson v. Premier Medical Group",
	"Davis v. Riverside Insurance",
	"Miller v. Northern Electric Coop",
	"Wilson v. Southside Community Center",
	"Moore v. Westfield Shopping Mall",
	"Taylor v. Highland Construction",
	"Thomas v. Pacific Airways",
	"Jackson v. Downtown Hotel Group",
}

var medicalDocTypes = []string{
	"Medical Records",
	"Admission Records",
	"Discharge Summary",
	"Treatment Summary",
	"Physician Notes",
	"Radiology Report",
	"Lab Results",
	"Orthopedic Progress Notes",
	"Neurology Office Visit",
	"Pharmacy RX History",
	"Physical Therapy Records",
}

// medicalFolder always holds medical documents.
const medicalFolder = "Medical Records"

var folders = []string{
	"Discovery",
	"Depositions",
	"Disclosures",
	"Expert Discovery",
	"Interrogatories",
	medicalFolder,
	"Correspondence",
	"Research",
	"Evidence",
	"Work Product",
	"Billing",
}
