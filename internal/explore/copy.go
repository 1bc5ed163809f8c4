package explore

// Display copy shared by the terminal and web surfaces.
const (
	Title          = "STEM Exploratorium"
	Welcome        = "Welcome to STEM Exploratorium!"
	Tagline        = "Explore STEM concepts through hands-on activities, virtual field trips, and collaborative projects!"
	Purpose        = "The STEM Exploratorium is designed to inspire curiosity and creativity in science, technology, engineering, and mathematics. Whether you're looking for engaging DIY projects, exciting virtual field trips, or challenging STEM activities, this app provides a platform to explore, learn, and innovate. Join us on this journey to discover the wonders of STEM!"
	SidebarHeading = "Explore STEM Topics"
	ActivityLabel  = "Select Activity Type"
	TopicLabel     = "Enter a STEM topic or project name:"
	CountLabel     = "How many project ideas would you like to generate?"
	ImageLabel     = "Upload an image related to your STEM project:"
	GenerateLabel  = "Generate"

	ResultsHeading      = "Generated Ideas/Content:"
	ShortResponseNotice = "The initial response was too short. Generating a more detailed response..."
	PromptForInput      = "Please enter a topic and select an activity type."
	UploadHeading       = "Upload an Image for Analysis:"
	Disclaimer          = "*Response can be according to the Free API*"

	// NoResponseText replaces the primary text when the service returns no
	// completions.
	NoResponseText = "No response generated."
)
